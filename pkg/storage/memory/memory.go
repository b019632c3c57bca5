// Package memory provides an in-memory identity/membership store for
// testing and development deployments. Data is lost when the process
// restarts.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/farmbase/farmbase/pkg/auth"
	"github.com/farmbase/farmbase/pkg/storage"
)

// Store is an in-memory identity, membership, and farm store.
type Store struct {
	mu          sync.RWMutex
	identities  map[string]*auth.Identity
	byEmail     map[string]string // lower-cased email -> identity id
	farms       map[string]auth.Farm
	memberships map[string]*auth.TenantMembership // farmID + "/" + identityID
}

// Ensure Store implements the auth store interfaces at compile time.
var (
	_ auth.IdentityStore   = (*Store)(nil)
	_ auth.MembershipStore = (*Store)(nil)
)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		identities:  make(map[string]*auth.Identity),
		byEmail:     make(map[string]string),
		farms:       make(map[string]auth.Farm),
		memberships: make(map[string]*auth.TenantMembership),
	}
}

// AddIdentity inserts an identity, assigning an id when empty.
// Returns storage.ErrConflict if the id or email is already taken.
func (s *Store) AddIdentity(id auth.Identity) (*auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id.ID == "" {
		id.ID = uuid.NewString()
	}
	emailKey := strings.ToLower(id.Email)
	if _, exists := s.identities[id.ID]; exists {
		return nil, storage.ErrConflict
	}
	if _, exists := s.byEmail[emailKey]; exists {
		return nil, storage.ErrConflict
	}

	s.identities[id.ID] = &id
	s.byEmail[emailKey] = id.ID

	out := id
	return &out, nil
}

// AddFarm inserts a farm, assigning an id when empty.
func (s *Store) AddFarm(f auth.Farm) (auth.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if _, exists := s.farms[f.ID]; exists {
		return auth.Farm{}, storage.ErrConflict
	}
	s.farms[f.ID] = f
	return f, nil
}

// AddMembership inserts a membership row for the (farm, identity) pair.
func (s *Store) AddMembership(m auth.TenantMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := m.FarmID + "/" + m.IdentityID
	if _, exists := s.memberships[key]; exists {
		return storage.ErrConflict
	}
	s.memberships[key] = &m
	return nil
}

// SetActive flips the active flag of an identity. This is how revocation
// works: the guard re-checks activity on every request.
func (s *Store) SetActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.identities[id]
	if !ok {
		return storage.ErrNotFound
	}
	identity.Active = active
	return nil
}

// IdentityByID returns a copy of the identity.
func (s *Store) IdentityByID(_ context.Context, id string) (*auth.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *identity
	return &out, nil
}

// IdentityByEmail returns a copy of the identity, matched case-insensitively.
func (s *Store) IdentityByEmail(_ context.Context, email string) (*auth.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *s.identities[id]
	return &out, nil
}

// UpdateCredential replaces the stored credential.
func (s *Store) UpdateCredential(_ context.Context, id, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.identities[id]
	if !ok {
		return storage.ErrNotFound
	}
	identity.Credential = credential
	return nil
}

// Membership returns a copy of the membership row for the pair.
func (s *Store) Membership(_ context.Context, farmID, identityID string) (*auth.TenantMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memberships[farmID+"/"+identityID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *m
	return &out, nil
}

// ListFarms returns all farms sorted by name.
func (s *Store) ListFarms(_ context.Context) ([]auth.Farm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]auth.Farm, 0, len(s.farms))
	for _, f := range s.farms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
