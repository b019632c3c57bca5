package token

import (
	"net/http"
	"time"

	"github.com/farmbase/farmbase/pkg/auth"
)

// tenantCookieTTL is the lifetime of the farm-selection cookie.
const tenantCookieTTL = 30 * 24 * time.Hour

// SetSessionCookie writes the signed session token as a protected cookie.
func (s *Service) SetSessionCookie(w http.ResponseWriter, signed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie logs the caller out by re-setting the session cookie
// with immediate expiry. There is no server-side revocation list.
func (s *Service) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetTenantCookie records the selected farm. Not HTTP-only: client-side
// code reads it to populate the farm header on API calls.
func (s *Service) SetTenantCookie(w http.ResponseWriter, farmID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TenantCookieName,
		Value:    farmID,
		Path:     "/",
		MaxAge:   int(tenantCookieTTL / time.Second),
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTenantCookie removes the farm-selection cookie.
func (s *Service) ClearTenantCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TenantCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	})
}
