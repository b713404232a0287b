// Package store persists chat sessions in a single key-value blob and
// enforces a time-based retention window over them. The storage backend is
// injected so tests run against an in-memory map while production uses
// SQLite.
package store

// Backend is the key-value persistence boundary for the session store.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; err reports storage-level failures only.
	Get(key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any existing value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases any resources held by the backend.
	Close() error
}
