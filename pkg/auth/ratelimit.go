package auth

import (
	"sync"
	"time"
)

// LimiterConfig configures a SlidingWindowLimiter.
type LimiterConfig struct {
	// Max is the number of requests allowed per key within Window.
	Max int

	// Window is the trailing window duration. Default: 1 minute.
	Window time.Duration

	// SweepInterval is how often the background sweep purges keys whose
	// entire window has expired. Default: 1 minute.
	SweepInterval time.Duration

	// Now allows injecting a clock for tests. Default: time.Now.
	Now func() time.Time
}

// SlidingWindowLimiter bounds request frequency per caller key by counting
// accepted-request timestamps within a trailing window.
//
// The limiter is correct for a single process instance only; multi-instance
// deployments need an external shared store.
type SlidingWindowLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSlidingWindowLimiter creates a limiter and starts its background sweep.
// Call Stop to release the sweep goroutine.
func NewSlidingWindowLimiter(cfg LimiterConfig) *SlidingWindowLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	l := &SlidingWindowLimiter{
		max:    cfg.Max,
		window: cfg.Window,
		now:    cfg.Now,
		hits:   make(map[string][]time.Time),
		stop:   make(chan struct{}),
	}
	go l.sweepLoop(cfg.SweepInterval)
	return l
}

// Check records a request for the key if it is within the limit.
// Returns nil on acceptance, ErrRateLimited on rejection. Rejected requests
// are not recorded.
func (l *SlidingWindowLimiter) Check(key string) error {
	if l.max <= 0 {
		return nil // no limit
	}
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.hits[key]
	pruned := window[:0]
	for _, ts := range window {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= l.max {
		l.hits[key] = pruned
		return ErrRateLimited
	}

	l.hits[key] = append(pruned, now)
	return nil
}

// Stop terminates the background sweep. Safe to call more than once.
func (l *SlidingWindowLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *SlidingWindowLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep deletes keys whose entire window has expired, bounding memory
// growth from one-off or abandoned keys.
func (l *SlidingWindowLimiter) sweep() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, window := range l.hits {
		live := window[:0]
		for _, ts := range window {
			if ts.After(cutoff) {
				live = append(live, ts)
			}
		}
		if len(live) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = live
	}
}
