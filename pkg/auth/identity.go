package auth

import "context"

// Identity represents an authenticable user account, independent of any farm.
type Identity struct {
	// ID is the unique identifier (required, non-empty).
	ID string

	// Email is the login name, unique across the platform.
	Email string

	// Active gates every authenticated request. Revocation is implemented
	// by flipping this flag, not by token blacklisting.
	Active bool

	// Credential is the stored secret, format-tagged: a bcrypt hash in the
	// modern format, anything else is a legacy plain-text value.
	Credential string

	// SystemAdmin is the explicit platform-administrator flag.
	SystemAdmin bool

	// SystemRole is an optional platform-level role name.
	SystemRole string

	// Role is a legacy scalar role field retained from earlier schema
	// versions. Superseded by SystemRole but still present in the data.
	Role string

	// TenantRoles holds the per-farm role collection in whichever encoding
	// the row carries.
	TenantRoles RoleList
}

// TenantMembership is an association between an identity and a farm.
// Unique per (farm, identity) pair.
type TenantMembership struct {
	FarmID     string
	IdentityID string
	Role       string
	Active     bool
}

// Farm is an isolated customer organization. All business data is
// partitioned by farm id.
type Farm struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// SessionClaims is the signed payload proving an identity's authentication.
// Created at login, carried in the session cookie until expiry or logout.
// Never mutated in place; a new token always replaces the old one.
type SessionClaims struct {
	Subject     string
	SystemAdmin bool
	SystemRole  string
	TenantRoles []string
}

// RequestContext is the validated, request-scoped result of the Guard.
// It has no persistence and is discarded at response time.
type RequestContext struct {
	Identity      *Identity
	FarmID        string
	IsSystemAdmin bool
}

// IdentityStore is the external user store the guard reads identities from.
// The core only writes the credential field, during legacy upgrade.
type IdentityStore interface {
	// IdentityByID returns the identity or storage.ErrNotFound.
	IdentityByID(ctx context.Context, id string) (*Identity, error)

	// IdentityByEmail returns the identity or storage.ErrNotFound.
	// Lookup is case-insensitive.
	IdentityByEmail(ctx context.Context, email string) (*Identity, error)

	// UpdateCredential replaces the stored credential for the identity.
	UpdateCredential(ctx context.Context, id, credential string) error
}

// MembershipStore resolves farm memberships. Always authoritative, no caching.
type MembershipStore interface {
	// Membership returns the membership row for the (farm, identity) pair
	// or storage.ErrNotFound.
	Membership(ctx context.Context, farmID, identityID string) (*TenantMembership, error)
}

// SessionVerifier checks a raw session token and returns its claims.
// Implemented by token.Service.
type SessionVerifier interface {
	Verify(raw string) (*SessionClaims, error)
}
