// Package token implements the session token service: issuing and verifying
// the signed, time-limited token that carries identity and privilege claims,
// plus the cookie handling around it.
package token

import (
	"fmt"
	"log/slog"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/farmbase/farmbase/pkg/auth"
)

// DefaultTTL is the session token lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// devSecret signs tokens when no secret is configured outside production.
// The constructor refuses to fall back to it in production.
const devSecret = "farmbase-development-secret-do-not-use-in-production"

// Config holds the token service configuration.
type Config struct {
	// Secret is the HMAC signing secret. Required in production.
	Secret string

	// Production controls the missing-secret policy and the Secure cookie
	// attribute.
	Production bool

	// TTL is the token lifetime. Default: DefaultTTL.
	TTL time.Duration

	// Now allows injecting a clock for tests. Default: time.Now.
	Now func() time.Time
}

// Service issues and verifies session tokens. Stateless with respect to
// in-process memory; a token is self-contained until expiry.
type Service struct {
	secret     []byte
	production bool
	ttl        time.Duration
	now        func() time.Time
}

// New creates a token service. In production an empty secret is a
// configuration error; outside production a built-in development secret is
// substituted and logged.
func New(cfg Config) (*Service, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	secret := cfg.Secret
	if secret == "" {
		if cfg.Production {
			return nil, fmt.Errorf("%w: no session signing secret configured", auth.ErrServerMisconfigured)
		}
		secret = devSecret
		slog.Warn("no session signing secret configured, using development default")
	}
	return &Service{
		secret:     []byte(secret),
		production: cfg.Production,
		ttl:        cfg.TTL,
		now:        cfg.Now,
	}, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// sessionClaims is the JWT encoding of auth.SessionClaims.
type sessionClaims struct {
	jwtlib.RegisteredClaims
	SystemAdmin bool     `json:"system_admin,omitempty"`
	SystemRole  string   `json:"system_role,omitempty"`
	TenantRoles []string `json:"tenant_roles,omitempty"`
}

// Issue signs the claims with the server secret and the configured expiry.
func (s *Service) Issue(claims auth.SessionClaims) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: no session signing secret", auth.ErrServerMisconfigured)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("session claims missing subject")
	}

	now := s.now()
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
		},
		SystemAdmin: claims.SystemAdmin,
		SystemRole:  claims.SystemRole,
		TenantRoles: claims.TenantRoles,
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims. It does not
// check identity activity; that is the Guard's job, since it requires the
// user store.
func (s *Service) Verify(raw string) (*auth.SessionClaims, error) {
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: no session signing secret", auth.ErrServerMisconfigured)
	}

	var sc sessionClaims
	_, err := jwtlib.ParseWithClaims(raw, &sc,
		func(t *jwtlib.Token) (any, error) { return s.secret, nil },
		jwtlib.WithValidMethods([]string{"HS256"}),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if sc.Subject == "" {
		return nil, fmt.Errorf("session token missing subject")
	}

	return &auth.SessionClaims{
		Subject:     sc.Subject,
		SystemAdmin: sc.SystemAdmin,
		SystemRole:  sc.SystemRole,
		TenantRoles: sc.TenantRoles,
	}, nil
}

// Ensure Service implements the guard's verifier interface at compile time.
var _ auth.SessionVerifier = (*Service)(nil)
