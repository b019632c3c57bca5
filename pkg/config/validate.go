package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case EnvProduction, EnvDevelopment:
		// valid
	default:
		errs = append(errs, fmt.Errorf("environment must be %q or %q, got %q",
			EnvProduction, EnvDevelopment, c.Environment))
	}

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// A production deployment must carry an explicit signing secret; the
	// development fallback is gated off here, before anything is wired.
	if c.Environment == EnvProduction && c.Session.Secret == "" && c.Session.SecretFile == "" {
		errs = append(errs, fmt.Errorf("session.secret or session.secret_file is required in production"))
	}

	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be > 0, got %s", c.Session.TTL))
	}

	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	if c.RateLimit.LoginMax < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.login_max must be >= 0, got %d", c.RateLimit.LoginMax))
	}
	if c.RateLimit.LoginWindow <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.login_window must be > 0, got %s", c.RateLimit.LoginWindow))
	}

	return errors.Join(errs...)
}
