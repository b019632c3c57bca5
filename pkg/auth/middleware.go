package auth

import (
	"log/slog"
	"net/http"
	"strings"
)

// EdgeConfig configures the edge middleware.
type EdgeConfig struct {
	// Production enables the restrictive content-security-policy.
	Production bool

	// APIPrefix is the farm-scoped API surface. Default: "/api/".
	APIPrefix string

	// ExemptPaths are API paths allowed through without a farm header:
	// authentication endpoints, farm selection, and the platform-wide
	// farm listing for system admins. Defaults to DefaultExemptPaths.
	ExemptPaths []string
}

// DefaultExemptPaths lists API paths that do not require the farm header.
var DefaultExemptPaths = []string{
	"/api/auth/login",
	"/api/auth/logout",
	"/api/auth/session",
	"/api/auth/select-farm",
	"/api/farms",
}

// EdgeMiddleware runs ahead of all routing. It attaches transport security
// headers to every response and rejects, at the perimeter, any farm-scoped
// request lacking the farm header.
//
// This is a coarse first-line check: it only guarantees the Guard always has
// a farm id to work with, it does not replace the membership check.
func EdgeMiddleware(cfg EdgeConfig) func(http.Handler) http.Handler {
	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/"
	}
	exemptPaths := cfg.ExemptPaths
	if exemptPaths == nil {
		exemptPaths = DefaultExemptPaths
	}
	exempt := make(map[string]bool, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if cfg.Production {
				h.Set("Content-Security-Policy", "default-src 'self'")
			}

			if strings.HasPrefix(r.URL.Path, prefix) && !exempt[r.URL.Path] {
				if r.Header.Get(TenantHeader) == "" {
					slog.Warn("farm header missing",
						"path", r.URL.Path,
						"remote_addr", r.RemoteAddr,
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusBadRequest)
					w.Write([]byte(`{"error":{"code":"missing_farm","message":"X-Farm-ID header is required"}}`))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
