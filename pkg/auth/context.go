package auth

import "context"

// requestContextKey is a private type for the RequestContext context key,
// preventing collisions with other packages.
type requestContextKey struct{}

// SetRequestContext stores the guard's result in the context. Handlers
// should still thread the RequestContext value explicitly; the context copy
// exists for logging and metrics middleware.
func SetRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// RequestContextFrom retrieves the guard's result from the context.
// Returns nil if the request has not passed through the guard.
func RequestContextFrom(ctx context.Context) *RequestContext {
	if v, ok := ctx.Value(requestContextKey{}).(*RequestContext); ok {
		return v
	}
	return nil
}
