// Package kv defines the key-value persistence abstraction for the vault.
//
// The vault keeps its whole state as two JSON-serialized arrays, each stored
// under a fixed key. Every store operation is a read-modify-write of one full
// value; backends only need Get and Set, no query capability.
package kv

// Well-known keys. Each holds a JSON array of records.
const (
	KeyDiagrams    = "diagrams"
	KeyCollections = "collections"
)

// Backend is the interface for vault persistence.
type Backend interface {
	// Get returns the value stored under key. The second return value is
	// false when the key has never been written.
	Get(key string) ([]byte, bool, error)
	// Set atomically replaces the value stored under key.
	Set(key string, value []byte) error
	// Close releases backend resources.
	Close() error
}
