// Package collectionstore implements CRUD persistence for collections and
// owns the two-sided diagram membership relation.
//
// Membership is denormalized: Collection.DiagramIDs and Diagram.CollectionIDs
// both exist because the backend has no query capability, so each direction
// must be answerable from one record. This package is the only writer of
// either side and keeps them in lockstep after every mutation.
package collectionstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/diagramstore"
	"github.com/starford/dagaz/internal/kv"
	"github.com/starford/dagaz/internal/models"
)

// Defaults for new collections.
const (
	DefaultColor = "#3B82F6"
	DefaultIcon  = "folder"
)

// Store persists collections as one JSON array under a fixed key.
type Store struct {
	mu       sync.Mutex
	kv       kv.Backend
	diagrams *diagramstore.Store
}

// New creates a collection store over the given backend. The diagram store
// is needed to keep the diagram side of the membership relation consistent.
func New(backend kv.Backend, diagrams *diagramstore.Store) *Store {
	return &Store{kv: backend, diagrams: diagrams}
}

// Options holds the optional presentation metadata for Create.
type Options struct {
	Description string
	Color       string
	Icon        string
}

// Patch holds the fields an Update may change. Nil fields are left as-is.
// Membership is not patchable; use AddDiagram/RemoveDiagram.
type Patch struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
}

// List returns every collection in storage order.
func (s *Store) List() ([]models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the collection with the given id.
func (s *Store) Get(id string) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	collections, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range collections {
		if collections[i].ID == id {
			c := collections[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("collection %s: %w", id, apperr.ErrNotFound)
}

// Create appends a new empty collection.
func (s *Store) Create(name string, opts Options) (*models.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	collections, err := s.load()
	if err != nil {
		return nil, err
	}

	color := opts.Color
	if color == "" {
		color = DefaultColor
	}
	icon := opts.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	now := models.NowMillis()
	c := models.Collection{
		ID:          uuid.NewString(),
		Name:        name,
		Description: opts.Description,
		Color:       color,
		Icon:        icon,
		DiagramIDs:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	collections = append(collections, c)
	if err := s.save(collections); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update merges the patch into the existing record and bumps UpdatedAt.
func (s *Store) Update(id string, p Patch) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	collections, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range collections {
		if collections[i].ID != id {
			continue
		}
		c := &collections[i]
		if p.Name != nil {
			if strings.TrimSpace(*p.Name) == "" {
				return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalid)
			}
			c.Name = *p.Name
		}
		if p.Description != nil {
			c.Description = *p.Description
		}
		if p.Color != nil {
			c.Color = *p.Color
		}
		if p.Icon != nil {
			c.Icon = *p.Icon
		}
		c.UpdatedAt = models.NowMillis()
		if err := s.save(collections); err != nil {
			return nil, err
		}
		out := *c
		return &out, nil
	}
	return nil, fmt.Errorf("collection %s: %w", id, apperr.ErrNotFound)
}

// Delete removes the collection after stripping its id from every member
// diagram, so no diagram is left referencing it. Member diagrams themselves
// are never deleted.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	collections, err := s.load()
	if err != nil {
		return err
	}

	found := false
	kept := collections[:0]
	for _, c := range collections {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("collection %s: %w", id, apperr.ErrNotFound)
	}

	if err := s.stripCollectionFromDiagrams(id); err != nil {
		return err
	}
	return s.save(kept)
}

// AddDiagram makes the diagram a member of the collection, updating both
// sides of the relation. Already a member is a no-op. Fails with NotFound
// when either id is absent.
func (s *Store) AddDiagram(collectionID, diagramID string) error {
	// Verify the diagram exists before touching the collection side, so a
	// failure leaves both stores untouched.
	d, err := s.diagrams.Get(diagramID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	collections, err := s.load()
	if err != nil {
		return err
	}
	c := findCollection(collections, collectionID)
	if c == nil {
		return fmt.Errorf("collection %s: %w", collectionID, apperr.ErrNotFound)
	}
	if c.HasDiagram(diagramID) {
		return nil
	}

	c.DiagramIDs = append(c.DiagramIDs, diagramID)
	c.UpdatedAt = models.NowMillis()
	if err := s.save(collections); err != nil {
		return err
	}

	if d.InCollection(collectionID) {
		return nil
	}
	ids := append(append([]string{}, d.CollectionIDs...), collectionID)
	_, err = s.diagrams.Update(diagramID, diagramstore.Patch{CollectionIDs: &ids})
	return err
}

// RemoveDiagram removes the membership from both sides. Not a member is a
// no-op. Fails with NotFound when the collection is absent.
func (s *Store) RemoveDiagram(collectionID, diagramID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	collections, err := s.load()
	if err != nil {
		return err
	}
	c := findCollection(collections, collectionID)
	if c == nil {
		return fmt.Errorf("collection %s: %w", collectionID, apperr.ErrNotFound)
	}

	if c.HasDiagram(diagramID) {
		c.DiagramIDs = removeString(c.DiagramIDs, diagramID)
		c.UpdatedAt = models.NowMillis()
		if err := s.save(collections); err != nil {
			return err
		}
	}

	d, err := s.diagrams.Get(diagramID)
	if err != nil {
		// The diagram side may already be gone; nothing left to strip.
		return nil
	}
	if !d.InCollection(collectionID) {
		return nil
	}
	ids := removeString(append([]string{}, d.CollectionIDs...), collectionID)
	_, err = s.diagrams.Update(diagramID, diagramstore.Patch{CollectionIDs: &ids})
	return err
}

// DetachDiagram strips the diagram id from every collection referencing it.
// Callers deleting a diagram run this first so no collection is left with a
// dangling member.
func (s *Store) DetachDiagram(diagramID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	collections, err := s.load()
	if err != nil {
		return err
	}
	changed := false
	for i := range collections {
		c := &collections[i]
		if !c.HasDiagram(diagramID) {
			continue
		}
		c.DiagramIDs = removeString(c.DiagramIDs, diagramID)
		c.UpdatedAt = models.NowMillis()
		changed = true
	}
	if !changed {
		return nil
	}
	return s.save(collections)
}

// DiagramsIn returns the member diagrams of a collection, in membership
// order. Ids without a live diagram are skipped.
func (s *Store) DiagramsIn(collectionID string) ([]models.Diagram, error) {
	c, err := s.Get(collectionID)
	if err != nil {
		return nil, err
	}
	all, err := s.diagrams.List()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Diagram, len(all))
	for _, d := range all {
		byID[d.ID] = d
	}
	out := []models.Diagram{}
	for _, id := range c.DiagramIDs {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// stripCollectionFromDiagrams removes collectionID from every diagram's
// CollectionIDs. Called with s.mu held; only touches the diagram store.
func (s *Store) stripCollectionFromDiagrams(collectionID string) error {
	all, err := s.diagrams.List()
	if err != nil {
		return err
	}
	for _, d := range all {
		if !d.InCollection(collectionID) {
			continue
		}
		ids := removeString(append([]string{}, d.CollectionIDs...), collectionID)
		if _, err := s.diagrams.Update(d.ID, diagramstore.Patch{CollectionIDs: &ids}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) load() ([]models.Collection, error) {
	data, ok, err := s.kv.Get(kv.KeyCollections)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Collection{}, nil
	}
	var collections []models.Collection
	if err := json.Unmarshal(data, &collections); err != nil {
		return nil, fmt.Errorf("collectionstore: corrupt state: %w", err)
	}
	return collections, nil
}

func (s *Store) save(collections []models.Collection) error {
	data, err := json.Marshal(collections)
	if err != nil {
		return fmt.Errorf("collectionstore: marshal: %w", err)
	}
	return s.kv.Set(kv.KeyCollections, data)
}

func findCollection(collections []models.Collection, id string) *models.Collection {
	for i := range collections {
		if collections[i].ID == id {
			return &collections[i]
		}
	}
	return nil
}

func removeString(ids []string, victim string) []string {
	kept := ids[:0]
	for _, id := range ids {
		if id != victim {
			kept = append(kept, id)
		}
	}
	return kept
}
