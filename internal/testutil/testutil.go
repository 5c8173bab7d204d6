// Package testutil provides shared test helpers for setting up backends and stores.
package testutil

import (
	"testing"

	"github.com/starford/dagaz/internal/collectionstore"
	"github.com/starford/dagaz/internal/diagramstore"
	"github.com/starford/dagaz/internal/kv"
)

// Backend returns a fresh in-memory KV backend.
func Backend(t *testing.T) kv.Backend {
	t.Helper()
	return kv.NewMemory()
}

// Stores returns a diagram store and a collection store over one shared
// in-memory backend.
func Stores(t *testing.T) (*diagramstore.Store, *collectionstore.Store) {
	t.Helper()
	backend := kv.NewMemory()
	diagrams := diagramstore.New(backend)
	collections := collectionstore.New(backend, diagrams)
	return diagrams, collections
}
