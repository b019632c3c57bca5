package auth

import "errors"

// Sentinel errors. Each maps to exactly one HTTP status in the transport
// layer and is never silently downgraded.
var (
	// ErrMissingTenant (400): no farm id on a request that requires one.
	ErrMissingTenant = errors.New("missing farm id")

	// ErrUnauthenticated (401): missing/invalid/expired token, or the
	// identity is inactive.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden (403): authenticated but neither a member of the
	// requested farm nor a system admin.
	ErrForbidden = errors.New("access denied")

	// ErrRateLimited (429): limiter rejection.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServerMisconfigured (500): no signing secret in production.
	ErrServerMisconfigured = errors.New("server misconfigured")
)
