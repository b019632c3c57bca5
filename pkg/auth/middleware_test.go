package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func runEdge(t *testing.T, cfg EdgeConfig, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	EdgeMiddleware(cfg)(next).ServeHTTP(w, r)
	return w
}

func TestEdgeMiddleware_SecurityHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/healthz", nil)
	w := runEdge(t, EdgeConfig{}, r)

	wantHeaders := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for k, want := range wantHeaders {
		if got := w.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if got := w.Header().Get("Content-Security-Policy"); got != "" {
		t.Errorf("CSP should be absent in development, got %q", got)
	}

	w = runEdge(t, EdgeConfig{Production: true}, httptest.NewRequest("GET", "/healthz", nil))
	if got := w.Header().Get("Content-Security-Policy"); got != "default-src 'self'" {
		t.Errorf("production CSP = %q, want default-src 'self'", got)
	}
}

func TestEdgeMiddleware_FarmHeaderEnforcement(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		farmHeader string
		wantStatus int
	}{
		{"api path without header", "/api/batches", "", http.StatusBadRequest},
		{"api path with header", "/api/batches", "farm-1", http.StatusNoContent},
		{"login is exempt", "/api/auth/login", "", http.StatusNoContent},
		{"logout is exempt", "/api/auth/logout", "", http.StatusNoContent},
		{"session is exempt", "/api/auth/session", "", http.StatusNoContent},
		{"select-farm is exempt", "/api/auth/select-farm", "", http.StatusNoContent},
		{"farm listing is exempt", "/api/farms", "", http.StatusNoContent},
		{"non-api path", "/healthz", "", http.StatusNoContent},
		{"root path", "/", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.path, nil)
			if tt.farmHeader != "" {
				r.Header.Set(TenantHeader, tt.farmHeader)
			}
			w := runEdge(t, EdgeConfig{}, r)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestEdgeMiddleware_RejectionBody(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/batches", nil)
	w := runEdge(t, EdgeConfig{}, r)

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if body := w.Body.String(); !strings.Contains(body, `"missing_farm"`) {
		t.Errorf("body should carry the missing_farm code, got %s", body)
	}
}

func TestEdgeMiddleware_CustomExemptPaths(t *testing.T) {
	cfg := EdgeConfig{ExemptPaths: []string{"/api/public"}}

	w := runEdge(t, cfg, httptest.NewRequest("GET", "/api/public", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("custom exempt path rejected: %d", w.Code)
	}

	// The defaults no longer apply once a custom list is set.
	w = runEdge(t, cfg, httptest.NewRequest("GET", "/api/auth/login", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("default exemption should be replaced, got %d", w.Code)
	}
}
