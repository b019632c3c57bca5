package auth

import (
	"errors"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for limiter tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(max int, window time.Duration) (*SlidingWindowLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewSlidingWindowLimiter(LimiterConfig{
		Max:           max,
		Window:        window,
		SweepInterval: time.Hour, // keep the background sweep out of the way
		Now:           clock.Now,
	})
	return l, clock
}

func TestSlidingWindowLimiter_Scenario(t *testing.T) {
	l, clock := newTestLimiter(5, 10*time.Second)
	defer l.Stop()

	// 5 calls within the window all succeed.
	for i := 0; i < 5; i++ {
		if err := l.Check("k"); err != nil {
			t.Fatalf("call %d: unexpected rejection: %v", i+1, err)
		}
		clock.Advance(time.Second)
	}

	// The 6th within the same window is rejected.
	if err := l.Check("k"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("6th call: got %v, want ErrRateLimited", err)
	}

	// After the window passes with no further calls, a 7th succeeds.
	clock.Advance(10 * time.Second)
	if err := l.Check("k"); err != nil {
		t.Fatalf("call after window elapsed: unexpected rejection: %v", err)
	}
}

func TestSlidingWindowLimiter_RejectionNotRecorded(t *testing.T) {
	l, clock := newTestLimiter(1, 10*time.Second)
	defer l.Stop()

	if err := l.Check("k"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	// Rejected calls must not extend the window.
	for i := 0; i < 3; i++ {
		if err := l.Check("k"); !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected rejection, got %v", err)
		}
	}
	clock.Advance(10*time.Second + time.Millisecond)
	if err := l.Check("k"); err != nil {
		t.Errorf("after window: unexpected rejection: %v", err)
	}
}

func TestSlidingWindowLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, 10*time.Second)
	defer l.Stop()

	if err := l.Check("a"); err != nil {
		t.Fatalf("key a: %v", err)
	}
	if err := l.Check("b"); err != nil {
		t.Errorf("key b should have its own window: %v", err)
	}
}

func TestSlidingWindowLimiter_ZeroMaxMeansUnlimited(t *testing.T) {
	l, _ := newTestLimiter(0, 10*time.Second)
	defer l.Stop()

	for i := 0; i < 100; i++ {
		if err := l.Check("k"); err != nil {
			t.Fatalf("unlimited limiter rejected call %d: %v", i, err)
		}
	}
}

func TestSlidingWindowLimiter_SweepPurgesExpiredKeys(t *testing.T) {
	l, clock := newTestLimiter(5, 10*time.Second)
	defer l.Stop()

	l.Check("gone")
	l.Check("stays")

	clock.Advance(5 * time.Second)
	l.Check("stays")
	clock.Advance(6 * time.Second) // "gone" fully expired, "stays" has one live hit

	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.hits["gone"]; ok {
		t.Error("fully expired key should be purged by the sweep")
	}
	window, ok := l.hits["stays"]
	if !ok {
		t.Fatal("key with live timestamps should survive the sweep")
	}
	if len(window) != 1 {
		t.Errorf("sweep should prune expired timestamps, got %d live", len(window))
	}
}
