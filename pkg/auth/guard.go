package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/farmbase/farmbase/pkg/storage"
)

const (
	// SessionCookieName carries the signed session token. HTTP-only.
	SessionCookieName = "farmbase_session"

	// TenantCookieName carries the selected farm id. Readable by client
	// code, which copies it into the farm header on API calls.
	TenantCookieName = "farmbase_farm"

	// TenantHeader is the request header every farm-scoped API call must
	// carry.
	TenantHeader = "X-Farm-ID"

	// IdentityHeader is the deprecated transition path: a raw identity id
	// accepted in place of a session token. Retained for legacy API
	// consumers only; new consumers must use the session cookie.
	IdentityHeader = "X-Farmbase-Identity"

	// tenantQueryParam is the development-only fallback for the farm id.
	tenantQueryParam = "farm_id"
)

// GuardConfig configures the Guard.
type GuardConfig struct {
	// AllowTenantQuery permits reading the farm id from the farm_id query
	// parameter when the header is absent. A development convenience;
	// production configuration never sets it, so the fallback path does
	// not exist in a production guard.
	AllowTenantQuery bool
}

// Guard composes session verification, the system-admin classifier, and the
// membership lookup into the single operation every protected handler calls
// first. It holds no mutable state; all state lives in the external stores.
type Guard struct {
	sessions         SessionVerifier
	identities       IdentityStore
	memberships      MembershipStore
	allowTenantQuery bool
}

// NewGuard creates a Guard over the given session verifier and stores.
func NewGuard(sessions SessionVerifier, identities IdentityStore, memberships MembershipStore, cfg GuardConfig) *Guard {
	return &Guard{
		sessions:         sessions,
		identities:       identities,
		memberships:      memberships,
		allowTenantQuery: cfg.AllowTenantQuery,
	}
}

// Authenticate resolves the caller's identity from the request.
//
// The session cookie is the primary path: its token is verified and the
// referenced identity loaded. The deprecated identity header is accepted as
// a secondary path. A token is only considered valid if signature
// verification succeeds and the identity is currently active.
//
// Failures return ErrUnauthenticated, except a misconfigured token service
// which surfaces as ErrServerMisconfigured.
func (g *Guard) Authenticate(r *http.Request) (*Identity, error) {
	ctx := r.Context()

	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		claims, err := g.sessions.Verify(c.Value)
		if err != nil {
			if errors.Is(err, ErrServerMisconfigured) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: invalid session token", ErrUnauthenticated)
		}
		return g.loadActive(ctx, claims.Subject)
	}

	// Deprecated: raw identity id in a header, kept for the transition
	// period of legacy API consumers.
	if id := r.Header.Get(IdentityHeader); id != "" {
		return g.loadActive(ctx, id)
	}

	return nil, ErrUnauthenticated
}

// AuthorizeTenant authenticates the caller and checks its access to the
// requested farm. Every farm-scoped operation must call this first and must
// scope all subsequent data access by the returned FarmID, never by a
// client-supplied value taken from elsewhere.
//
// System admins receive a RequestContext for any farm id; everyone else
// needs an active membership row. There is no third path.
func (g *Guard) AuthorizeTenant(r *http.Request) (*RequestContext, error) {
	farmID := r.Header.Get(TenantHeader)
	if farmID == "" && g.allowTenantQuery {
		farmID = r.URL.Query().Get(tenantQueryParam)
	}
	if farmID == "" {
		return nil, ErrMissingTenant
	}

	id, err := g.Authenticate(r)
	if err != nil {
		return nil, err
	}

	if IsSystemAdmin(id) {
		return &RequestContext{Identity: id, FarmID: farmID, IsSystemAdmin: true}, nil
	}

	m, err := g.memberships.Membership(r.Context(), farmID, id.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("looking up membership: %w", err)
	}
	if !m.Active {
		return nil, ErrForbidden
	}

	return &RequestContext{Identity: id, FarmID: farmID}, nil
}

// loadActive loads the identity and requires it to be active.
func (g *Guard) loadActive(ctx context.Context, identityID string) (*Identity, error) {
	id, err := g.identities.IdentityByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("loading identity: %w", err)
	}
	if !id.Active {
		return nil, fmt.Errorf("%w: identity inactive", ErrUnauthenticated)
	}
	return id, nil
}
