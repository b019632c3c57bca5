package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/farmbase/farmbase/pkg/auth"
	"github.com/farmbase/farmbase/pkg/auth/token"
	"github.com/farmbase/farmbase/pkg/observability"
	"github.com/farmbase/farmbase/pkg/storage"
)

// maxBodySize bounds request bodies on the auth endpoints.
const maxBodySize = 64 << 10 // 64 KB

// FarmLister lists all farms for the platform-wide admin view.
type FarmLister interface {
	ListFarms(ctx context.Context) ([]auth.Farm, error)
}

// Handlers serves the authentication and farm-selection endpoints.
type Handlers struct {
	guard        *auth.Guard
	tokens       *token.Service
	identities   auth.IdentityStore
	memberships  auth.MembershipStore
	farms        FarmLister
	loginLimiter *auth.SlidingWindowLimiter
}

// NewHandlers wires the auth endpoints. loginLimiter may be nil to disable
// login rate limiting.
func NewHandlers(guard *auth.Guard, tokens *token.Service, identities auth.IdentityStore,
	memberships auth.MembershipStore, farms FarmLister, loginLimiter *auth.SlidingWindowLimiter) *Handlers {
	return &Handlers{
		guard:        guard,
		tokens:       tokens,
		identities:   identities,
		memberships:  memberships,
		farms:        farms,
		loginLimiter: loginLimiter,
	}
}

type loginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type identitySummary struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	SystemAdmin bool   `json:"system_admin"`
}

// HandleLogin verifies credentials and issues a session cookie. The failure
// message is generic: it does not distinguish an unknown email from a wrong
// secret.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Secret == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "email and secret are required")
		return
	}

	if h.loginLimiter != nil {
		if err := h.loginLimiter.Check(clientIP(r) + ":" + email); err != nil {
			observability.RateLimitRejectedTotal.Inc()
			WriteAuthError(w, err)
			return
		}
	}

	ctx := r.Context()
	id, err := h.identities.IdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.rejectLogin(w, email, "unknown email")
			return
		}
		WriteAuthError(w, fmt.Errorf("loading identity: %w", err))
		return
	}

	ok, upgraded := auth.VerifyCredential(req.Secret, id.Credential)
	if !ok {
		h.rejectLogin(w, email, "wrong secret")
		return
	}
	if !id.Active {
		h.rejectLogin(w, email, "identity inactive")
		return
	}

	// Legacy credential upgrade is best-effort: a persistence failure is
	// logged and counted but never blocks the login.
	if upgraded != "" {
		if err := h.identities.UpdateCredential(ctx, id.ID, upgraded); err != nil {
			observability.CredentialUpgradesTotal.WithLabelValues("error").Inc()
			slog.Warn("persisting upgraded credential failed, keeping legacy value",
				"identity", id.ID, "error", err)
		} else {
			observability.CredentialUpgradesTotal.WithLabelValues("ok").Inc()
			slog.Info("upgraded legacy credential", "identity", id.ID)
		}
	}

	signed, err := h.tokens.Issue(auth.SessionClaims{
		Subject:     id.ID,
		SystemAdmin: id.SystemAdmin,
		SystemRole:  id.SystemRole,
		TenantRoles: id.TenantRoles.Slice(),
	})
	if err != nil {
		WriteAuthError(w, err)
		return
	}

	h.tokens.SetSessionCookie(w, signed)
	observability.LoginsTotal.WithLabelValues("ok").Inc()
	slog.Info("login succeeded", "identity", id.ID)
	writeJSON(w, http.StatusOK, identitySummary{
		ID:          id.ID,
		Email:       id.Email,
		SystemAdmin: auth.IsSystemAdmin(id),
	})
}

// rejectLogin writes the generic 401. The reason stays in the log only.
func (h *Handlers) rejectLogin(w http.ResponseWriter, email, reason string) {
	observability.LoginsTotal.WithLabelValues("rejected").Inc()
	slog.Warn("login rejected", "email", email, "reason", reason)
	WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
}

// HandleLogout clears the session and farm-selection cookies. Idempotent:
// a second logout produces the same cleared-cookie response.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.tokens.ClearSessionCookie(w)
	h.tokens.ClearTenantCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type sessionResponse struct {
	Valid      bool   `json:"valid"`
	IdentityID string `json:"identity_id,omitempty"`
}

// HandleSession validates the session cookie and reports the identity.
func (h *Handlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	id, err := h.guard.Authenticate(r)
	if err != nil {
		WriteAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Valid: true, IdentityID: id.ID})
}

type selectFarmRequest struct {
	FarmID string `json:"farm_id"`
}

// HandleSelectFarm records the caller's farm choice in the farm-selection
// cookie. Requires system-admin status or an active membership in the farm.
func (h *Handlers) HandleSelectFarm(w http.ResponseWriter, r *http.Request) {
	id, err := h.guard.Authenticate(r)
	if err != nil {
		WriteAuthError(w, err)
		return
	}

	var req selectFarmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	if req.FarmID == "" {
		WriteAuthError(w, auth.ErrMissingTenant)
		return
	}

	if !auth.IsSystemAdmin(id) {
		m, err := h.memberships.Membership(r.Context(), req.FarmID, id.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				WriteAuthError(w, auth.ErrForbidden)
				return
			}
			WriteAuthError(w, fmt.Errorf("looking up membership: %w", err))
			return
		}
		if !m.Active {
			WriteAuthError(w, auth.ErrForbidden)
			return
		}
	}

	h.tokens.SetTenantCookie(w, req.FarmID)
	writeJSON(w, http.StatusOK, map[string]string{"farm_id": req.FarmID})
}

// HandleListFarms is the platform-wide farm listing, system admins only.
// It is on the edge allow-list because it is the one farm-scoped-surface
// endpoint that legitimately has no single farm id.
func (h *Handlers) HandleListFarms(w http.ResponseWriter, r *http.Request) {
	id, err := h.guard.Authenticate(r)
	if err != nil {
		WriteAuthError(w, err)
		return
	}
	if !auth.IsSystemAdmin(id) {
		WriteAuthError(w, auth.ErrForbidden)
		return
	}

	farms, err := h.farms.ListFarms(r.Context())
	if err != nil {
		WriteAuthError(w, fmt.Errorf("listing farms: %w", err))
		return
	}
	if farms == nil {
		farms = []auth.Farm{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"farms": farms})
}

// decodeJSON decodes a bounded JSON request body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// clientIP extracts the caller address for rate-limit keying. Trusts the
// first X-Forwarded-For hop when present, since the server normally sits
// behind the platform load balancer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
