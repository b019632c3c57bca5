package postgres

import "time"

// Config holds PostgreSQL connection settings.
type Config struct {
	// DSN is the connection string (required).
	DSN string

	// MaxConns is the pool size. Default: 25.
	MaxConns int32

	// MinConns is the number of idle connections kept open. Default: 2.
	MinConns int32

	// MaxConnLifetime bounds connection age. Default: 1 hour.
	MaxConnLifetime time.Duration

	// MigrateOnStart applies embedded schema migrations at startup.
	MigrateOnStart bool
}

// defaults fills in zero-value fields.
func (c *Config) defaults() {
	if c.MaxConns == 0 {
		c.MaxConns = 25
	}
	if c.MinConns == 0 {
		c.MinConns = 2
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = time.Hour
	}
}
