package token

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/farmbase/farmbase/pkg/auth"
)

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	if cfg.Secret == "" {
		cfg.Secret = "test-secret"
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestService_IssueVerifyRoundTrip(t *testing.T) {
	s := newTestService(t, Config{})

	claims := auth.SessionClaims{
		Subject:     "u1",
		SystemAdmin: true,
		SystemRole:  "SYSTEM_ADMIN",
		TenantRoles: []string{"OWNER", "WORKER"},
	}
	signed, err := s.Issue(claims)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := s.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !reflect.DeepEqual(*got, claims) {
		t.Errorf("claims round-trip = %+v, want %+v", *got, claims)
	}
}

func TestService_Verify_RejectsTampering(t *testing.T) {
	s := newTestService(t, Config{})

	signed, err := s.Issue(auth.SessionClaims{Subject: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip one byte in the signature segment.
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", signed)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := s.Verify(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestService_Verify_RejectsWrongSecret(t *testing.T) {
	a := newTestService(t, Config{Secret: "secret-a"})
	b := newTestService(t, Config{Secret: "secret-b"})

	signed, err := a.Issue(auth.SessionClaims{Subject: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Verify(signed); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestService_Verify_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	s := newTestService(t, Config{
		TTL: time.Hour,
		Now: func() time.Time { return *clock },
	})

	signed, err := s.Issue(auth.SessionClaims{Subject: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Still valid just before expiry.
	later := now.Add(59 * time.Minute)
	clock = &later
	if _, err := s.Verify(signed); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	// Rejected after.
	expired := now.Add(61 * time.Minute)
	clock = &expired
	if _, err := s.Verify(signed); err == nil {
		t.Error("expired token accepted")
	}
}

func TestService_Issue_RequiresSubject(t *testing.T) {
	s := newTestService(t, Config{})
	if _, err := s.Issue(auth.SessionClaims{}); err == nil {
		t.Error("empty subject accepted")
	}
}

func TestNew_ProductionRequiresSecret(t *testing.T) {
	_, err := New(Config{Production: true})
	if !errors.Is(err, auth.ErrServerMisconfigured) {
		t.Errorf("err = %v, want ErrServerMisconfigured", err)
	}

	// Development falls back to the built-in secret.
	s, err := New(Config{})
	if err != nil {
		t.Fatalf("development fallback: %v", err)
	}
	signed, err := s.Issue(auth.SessionClaims{Subject: "u1"})
	if err != nil {
		t.Fatalf("Issue with fallback secret: %v", err)
	}
	if _, err := s.Verify(signed); err != nil {
		t.Errorf("Verify with fallback secret: %v", err)
	}
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSessionCookieAttributes(t *testing.T) {
	dev := newTestService(t, Config{TTL: time.Hour})
	prod := newTestService(t, Config{Production: true, TTL: time.Hour})

	w := httptest.NewRecorder()
	dev.SetSessionCookie(w, "signed-token")
	c := findCookie(t, w, auth.SessionCookieName)
	if !c.HttpOnly {
		t.Error("session cookie must be HTTP-only")
	}
	if c.Secure {
		t.Error("Secure should be off outside production")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}
	if c.MaxAge != 3600 {
		t.Errorf("MaxAge = %d, want 3600", c.MaxAge)
	}

	w = httptest.NewRecorder()
	prod.SetSessionCookie(w, "signed-token")
	if c := findCookie(t, w, auth.SessionCookieName); !c.Secure {
		t.Error("Secure must be on in production")
	}

	w = httptest.NewRecorder()
	dev.ClearSessionCookie(w)
	if c := findCookie(t, w, auth.SessionCookieName); c.MaxAge >= 0 || c.Value != "" {
		t.Errorf("clear cookie = MaxAge %d value %q, want expired empty", c.MaxAge, c.Value)
	}
}

func TestTenantCookieAttributes(t *testing.T) {
	s := newTestService(t, Config{})

	w := httptest.NewRecorder()
	s.SetTenantCookie(w, "farm-1")
	c := findCookie(t, w, auth.TenantCookieName)
	if c.HttpOnly {
		t.Error("tenant cookie must be readable by client code")
	}
	if c.Value != "farm-1" {
		t.Errorf("value = %q, want farm-1", c.Value)
	}
	if c.MaxAge != int(tenantCookieTTL/time.Second) {
		t.Errorf("MaxAge = %d, want %d", c.MaxAge, int(tenantCookieTTL/time.Second))
	}

	w = httptest.NewRecorder()
	s.ClearTenantCookie(w)
	if c := findCookie(t, w, auth.TenantCookieName); c.MaxAge >= 0 {
		t.Errorf("clear tenant cookie MaxAge = %d, want negative", c.MaxAge)
	}
}
