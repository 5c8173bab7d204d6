// Package diagramstore implements CRUD persistence for diagrams.
//
// The store has no notion of collections: Diagram.CollectionIDs is an opaque
// field here, written only through Update patches issued by the collection
// store, which owns referential integrity.
package diagramstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/kv"
	"github.com/starford/dagaz/internal/models"
)

// Store persists diagrams as one JSON array under a fixed key.
// Every operation re-reads the full persisted state, applies its change,
// and writes the full state back; the mutex makes that cycle atomic
// within the process.
type Store struct {
	mu sync.Mutex
	kv kv.Backend
}

// New creates a diagram store over the given backend.
func New(backend kv.Backend) *Store {
	return &Store{kv: backend}
}

// Patch holds the fields an Update may change. Nil fields are left as-is.
type Patch struct {
	Name          *string
	Code          *string
	Theme         *models.Theme
	CollectionIDs *[]string
}

// List returns every diagram in storage order. An empty store yields an
// empty slice, never an error.
func (s *Store) List() ([]models.Diagram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the diagram with the given id.
func (s *Store) Get(id string) (*models.Diagram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	diagrams, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range diagrams {
		if diagrams[i].ID == id {
			d := diagrams[i]
			return &d, nil
		}
	}
	return nil, fmt.Errorf("diagram %s: %w", id, apperr.ErrNotFound)
}

// Create appends a new diagram with a fresh id, light theme, and both
// timestamps set to now.
func (s *Store) Create(name, code string) (*models.Diagram, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	diagrams, err := s.load()
	if err != nil {
		return nil, err
	}

	now := models.NowMillis()
	d := models.Diagram{
		ID:        uuid.NewString(),
		Name:      name,
		Code:      code,
		Theme:     models.ThemeLight,
		CreatedAt: now,
		UpdatedAt: now,
	}
	diagrams = append(diagrams, d)
	if err := s.save(diagrams); err != nil {
		return nil, err
	}
	return &d, nil
}

// Add appends an already-built record, preserving its id and timestamps.
// Used by the import paths, which construct complete records themselves.
func (s *Store) Add(d models.Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	diagrams, err := s.load()
	if err != nil {
		return err
	}
	diagrams = append(diagrams, d)
	return s.save(diagrams)
}

// Update merges the patch into the existing record and bumps UpdatedAt.
func (s *Store) Update(id string, p Patch) (*models.Diagram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	diagrams, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range diagrams {
		if diagrams[i].ID != id {
			continue
		}
		d := &diagrams[i]
		if p.Name != nil {
			if strings.TrimSpace(*p.Name) == "" {
				return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalid)
			}
			d.Name = *p.Name
		}
		if p.Code != nil {
			d.Code = *p.Code
		}
		if p.Theme != nil {
			d.Theme = *p.Theme
		}
		if p.CollectionIDs != nil {
			d.CollectionIDs = *p.CollectionIDs
		}
		d.UpdatedAt = models.NowMillis()
		if err := s.save(diagrams); err != nil {
			return nil, err
		}
		out := *d
		return &out, nil
	}
	return nil, fmt.Errorf("diagram %s: %w", id, apperr.ErrNotFound)
}

// Delete removes the record. Deleting an absent id is not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	diagrams, err := s.load()
	if err != nil {
		return err
	}
	kept := diagrams[:0]
	for _, d := range diagrams {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	return s.save(kept)
}

func (s *Store) load() ([]models.Diagram, error) {
	data, ok, err := s.kv.Get(kv.KeyDiagrams)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Diagram{}, nil
	}
	var diagrams []models.Diagram
	if err := json.Unmarshal(data, &diagrams); err != nil {
		return nil, fmt.Errorf("diagramstore: corrupt state: %w", err)
	}
	return diagrams, nil
}

func (s *Store) save(diagrams []models.Diagram) error {
	data, err := json.Marshal(diagrams)
	if err != nil {
		return fmt.Errorf("diagramstore: marshal: %w", err)
	}
	return s.kv.Set(kv.KeyDiagrams, data)
}
