// Package postgres provides the PostgreSQL-backed identity, membership,
// and farm store. It uses pgx/v5 for connection pooling.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmbase/farmbase/pkg/auth"
	"github.com/farmbase/farmbase/pkg/storage"
)

// Store is a PostgreSQL-backed identity/membership/farm store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements the auth store interfaces at compile time.
var (
	_ auth.IdentityStore   = (*Store)(nil)
	_ auth.MembershipStore = (*Store)(nil)
)

// New creates a store with the given configuration. If MigrateOnStart is
// true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

const identityColumns = `id, email, active, credential, system_admin,
	COALESCE(system_role, ''), COALESCE(role, ''), COALESCE(tenant_roles, '')`

// IdentityByID loads an identity by primary key.
func (s *Store) IdentityByID(ctx context.Context, id string) (*auth.Identity, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

// IdentityByEmail loads an identity by email, case-insensitively.
func (s *Store) IdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE lower(email) = lower($1)`, email)
	return scanIdentity(row)
}

// UpdateCredential replaces the stored credential. Used by the login flow
// to persist the upgraded hash after a successful legacy login.
func (s *Store) UpdateCredential(ctx context.Context, id, credential string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE identities SET credential = $2, updated_at = now() WHERE id = $1`,
		id, credential)
	if err != nil {
		return fmt.Errorf("updating credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Membership returns the membership row for the (farm, identity) pair.
func (s *Store) Membership(ctx context.Context, farmID, identityID string) (*auth.TenantMembership, error) {
	m := auth.TenantMembership{FarmID: farmID, IdentityID: identityID}
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(role, ''), active FROM farm_members
		 WHERE farm_id = $1 AND identity_id = $2`,
		farmID, identityID,
	).Scan(&m.Role, &m.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying membership: %w", err)
	}
	return &m, nil
}

// ListFarms returns all farms sorted by name.
func (s *Store) ListFarms(ctx context.Context) ([]auth.Farm, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, active FROM farms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying farms: %w", err)
	}
	defer rows.Close()

	var farms []auth.Farm
	for rows.Next() {
		var f auth.Farm
		if err := rows.Scan(&f.ID, &f.Name, &f.Active); err != nil {
			return nil, fmt.Errorf("scanning farm: %w", err)
		}
		farms = append(farms, f)
	}
	return farms, rows.Err()
}

// scanIdentity reads one identity row. The tenant_roles column is a text
// field that has carried several encodings over the schema's history; it is
// handed to the RoleList union undecoded.
func scanIdentity(row pgx.Row) (*auth.Identity, error) {
	var id auth.Identity
	var tenantRoles string
	err := row.Scan(&id.ID, &id.Email, &id.Active, &id.Credential,
		&id.SystemAdmin, &id.SystemRole, &id.Role, &tenantRoles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scanning identity: %w", err)
	}
	id.TenantRoles = auth.RolesFromString(tenantRoles)
	return &id, nil
}
