// Package diagramservice orchestrates the stores and codecs for the API
// and MCP layers.
package diagramservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/collectionstore"
	"github.com/starford/dagaz/internal/detect"
	"github.com/starford/dagaz/internal/diagramstore"
	"github.com/starford/dagaz/internal/exchange"
	"github.com/starford/dagaz/internal/models"
)

// Notify is an optional hook invoked after successful mutations, used to
// feed the SSE broker. event is e.g. "diagram.created"; id is the record id.
type Notify func(event, id string)

// Service coordinates the two stores and the exchange codecs.
type Service struct {
	diagrams    *diagramstore.Store
	collections *collectionstore.Store
	shareBase   string
	notify      Notify
}

// NewService creates a service. shareBase is the public URL share links are
// built on. notify may be nil.
func NewService(diagrams *diagramstore.Store, collections *collectionstore.Store, shareBase string, notify Notify) *Service {
	return &Service{
		diagrams:    diagrams,
		collections: collections,
		shareBase:   shareBase,
		notify:      notify,
	}
}

func (s *Service) emit(event, id string) {
	if s.notify != nil {
		s.notify(event, id)
	}
}

// ListDiagrams returns every stored diagram.
func (s *Service) ListDiagrams(_ context.Context) ([]models.Diagram, error) {
	return s.diagrams.List()
}

// GetDiagram returns one diagram by id.
func (s *Service) GetDiagram(_ context.Context, id string) (*models.Diagram, error) {
	return s.diagrams.Get(id)
}

// CreateDiagram stores a new diagram.
func (s *Service) CreateDiagram(_ context.Context, name, code string) (*models.Diagram, error) {
	d, err := s.diagrams.Create(name, code)
	if err != nil {
		return nil, err
	}
	s.emit("diagram.created", d.ID)
	return d, nil
}

// UpdateDiagram patches an existing diagram.
func (s *Service) UpdateDiagram(_ context.Context, id string, p diagramstore.Patch) (*models.Diagram, error) {
	d, err := s.diagrams.Update(id, p)
	if err != nil {
		return nil, err
	}
	s.emit("diagram.updated", d.ID)
	return d, nil
}

// DeleteDiagram removes a diagram, first detaching it from every collection
// so no collection is left with a dangling member id.
func (s *Service) DeleteDiagram(_ context.Context, id string) error {
	if err := s.collections.DetachDiagram(id); err != nil {
		return err
	}
	if err := s.diagrams.Delete(id); err != nil {
		return err
	}
	s.emit("diagram.deleted", id)
	return nil
}

// CreateFromPaste classifies pasted text as Mermaid source and stores it
// under a suggested name. Non-diagram text fails with ErrInvalid.
func (s *Service) CreateFromPaste(ctx context.Context, text string) (*models.Diagram, error) {
	if !detect.IsDiagram(text) {
		return nil, fmt.Errorf("%w: text does not look like a Mermaid diagram", apperr.ErrInvalid)
	}
	return s.CreateDiagram(ctx, detect.SuggestName(text), text)
}

// ListCollections returns every collection.
func (s *Service) ListCollections(_ context.Context) ([]models.Collection, error) {
	return s.collections.List()
}

// CreateCollection stores a new collection.
func (s *Service) CreateCollection(_ context.Context, name string, opts collectionstore.Options) (*models.Collection, error) {
	c, err := s.collections.Create(name, opts)
	if err != nil {
		return nil, err
	}
	s.emit("collection.created", c.ID)
	return c, nil
}

// UpdateCollection patches an existing collection.
func (s *Service) UpdateCollection(_ context.Context, id string, p collectionstore.Patch) (*models.Collection, error) {
	c, err := s.collections.Update(id, p)
	if err != nil {
		return nil, err
	}
	s.emit("collection.updated", c.ID)
	return c, nil
}

// DeleteCollection removes a collection and its membership references.
// Member diagrams survive.
func (s *Service) DeleteCollection(_ context.Context, id string) error {
	if err := s.collections.Delete(id); err != nil {
		return err
	}
	s.emit("collection.deleted", id)
	return nil
}

// AddToCollection adds a diagram to a collection.
func (s *Service) AddToCollection(_ context.Context, collectionID, diagramID string) error {
	if err := s.collections.AddDiagram(collectionID, diagramID); err != nil {
		return err
	}
	s.emit("collection.updated", collectionID)
	return nil
}

// RemoveFromCollection removes a diagram from a collection.
func (s *Service) RemoveFromCollection(_ context.Context, collectionID, diagramID string) error {
	if err := s.collections.RemoveDiagram(collectionID, diagramID); err != nil {
		return err
	}
	s.emit("collection.updated", collectionID)
	return nil
}

// CollectionDiagrams returns the member diagrams of a collection.
func (s *Service) CollectionDiagrams(_ context.Context, collectionID string) ([]models.Diagram, error) {
	return s.collections.DiagramsIn(collectionID)
}

// ImportFiles decodes a batch of files, persists every decoded record, and
// returns the aggregate report plus the first imported diagram (the one a
// client should open), nil when nothing was imported.
func (s *Service) ImportFiles(_ context.Context, files []exchange.File) (exchange.ImportResult, *models.Diagram, error) {
	res := exchange.ProcessFiles(files)
	var first *models.Diagram
	for i := range res.Diagrams {
		if err := s.diagrams.Add(res.Diagrams[i]); err != nil {
			return res, first, err
		}
		s.emit("diagram.created", res.Diagrams[i].ID)
		if first == nil {
			first = &res.Diagrams[i]
		}
	}
	return res, first, nil
}

// OpenShared imports the diagram embedded in a share URL as a new persisted
// record with " (Shared)" appended to its name. A missing or garbage
// payload yields (nil, nil): this path runs on every page load and must not
// fail the application.
func (s *Service) OpenShared(_ context.Context, rawURL string) (*models.Diagram, error) {
	payload := exchange.DecodeShareURL(rawURL)
	if payload == nil {
		return nil, nil
	}
	now := models.NowMillis()
	d := models.Diagram{
		ID:        uuid.NewString(),
		Name:      payload.Name + " (Shared)",
		Code:      payload.Code,
		Theme:     payload.Theme,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.diagrams.Add(d); err != nil {
		return nil, err
	}
	s.emit("diagram.created", d.ID)
	return &d, nil
}

// ShareURL builds a shareable URL embedding the diagram.
func (s *Service) ShareURL(_ context.Context, id string) (string, error) {
	d, err := s.diagrams.Get(id)
	if err != nil {
		return "", err
	}
	return exchange.EncodeShareURL(s.shareBase, *d)
}

// ExportBackup serializes the whole vault as a timestamped backup download.
func (s *Service) ExportBackup(_ context.Context) (filename string, data []byte, err error) {
	diagrams, err := s.diagrams.List()
	if err != nil {
		return "", nil, err
	}
	data, err = exchange.EncodeBackup(diagrams)
	if err != nil {
		return "", nil, err
	}
	return exchange.BackupFilename(time.Now()), data, nil
}

// ExportSingle serializes one diagram as a plain-text download.
func (s *Service) ExportSingle(_ context.Context, id string) (filename string, data []byte, err error) {
	d, err := s.diagrams.Get(id)
	if err != nil {
		return "", nil, err
	}
	filename, data = exchange.EncodeSingle(*d)
	return filename, data, nil
}
