// Package store provides the local key-value storage used for user state.
//
// It plays the role browser local storage plays for a web client: string
// keys, string values, one profile per process. Two implementations exist:
// MemoryStore (optionally snapshotted to a JSON file) and BoltStore (bbolt).
package store

import "context"

// Store is the key-value interface consumed by the favorites store.
// All implementations are safe for concurrent use.
type Store interface {
	// Get returns the value for key, or *ErrNotFound when it is unset.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks if the backend is usable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the store.
	Close() error
}

// ── Errors ──────────────────────────────────────────────────

// ErrNotFound is returned when a requested key does not exist.
type ErrNotFound struct {
	Key string
}

func (e *ErrNotFound) Error() string {
	return "key not found: " + e.Key
}

// ErrClosed is returned by operations on a closed store.
type ErrClosed struct {
	Backend string
}

func (e *ErrClosed) Error() string {
	return e.Backend + " store is closed"
}

// IsNotFound reports whether err is an *ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}
