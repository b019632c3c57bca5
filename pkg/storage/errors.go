package storage

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a row with the same key already exists.
	ErrConflict = errors.New("already exists")
)
