// Package storage provides utilities shared across store adapter
// implementations: sentinel errors and nothing else.
//
// Store adapters (memory, postgres) implement the IdentityStore and
// MembershipStore interfaces defined in pkg/auth.
package storage
