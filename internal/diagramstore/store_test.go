package diagramstore

import (
	"errors"
	"testing"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/kv"
	"github.com/starford/dagaz/internal/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(kv.NewMemory())
}

func TestListEmptyStore(t *testing.T) {
	s := newStore(t)
	diagrams, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(diagrams) != 0 {
		t.Errorf("len = %d, want 0", len(diagrams))
	}
}

func TestCreateDefaults(t *testing.T) {
	s := newStore(t)
	d, err := s.Create("Auth flow", "graph TD\n A-->B")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ID == "" {
		t.Error("id should be generated")
	}
	if d.Theme != models.ThemeLight {
		t.Errorf("theme = %q, want light", d.Theme)
	}
	if d.CreatedAt == 0 || d.UpdatedAt != d.CreatedAt {
		t.Errorf("timestamps: created=%d updated=%d", d.CreatedAt, d.UpdatedAt)
	}
	if len(d.CollectionIDs) != 0 {
		t.Error("new diagram should be uncategorized")
	}
}

func TestCreateEmptyNameRejected(t *testing.T) {
	s := newStore(t)
	if _, err := s.Create("  ", "code"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestCreatePreservesStorageOrder(t *testing.T) {
	s := newStore(t)
	for _, name := range []string{"one", "two", "three"} {
		if _, err := s.Create(name, ""); err != nil {
			t.Fatal(err)
		}
	}
	diagrams, _ := s.List()
	if len(diagrams) != 3 {
		t.Fatalf("len = %d", len(diagrams))
	}
	for i, want := range []string{"one", "two", "three"} {
		if diagrams[i].Name != want {
			t.Errorf("diagrams[%d].Name = %q, want %q", i, diagrams[i].Name, want)
		}
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s := newStore(t)
	d, _ := s.Create("before", "old code")

	name := "after"
	theme := models.ThemeDark
	got, err := s.Update(d.ID, Patch{Name: &name, Theme: &theme})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "after" || got.Theme != models.ThemeDark {
		t.Errorf("merge failed: %+v", got)
	}
	if got.Code != "old code" {
		t.Errorf("unpatched field changed: %q", got.Code)
	}
	if got.UpdatedAt < got.CreatedAt {
		t.Error("UpdatedAt must not precede CreatedAt")
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newStore(t)
	name := "x"
	if _, err := s.Update("missing", Patch{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newStore(t)
	d, _ := s.Create("doomed", "")
	if err := s.Delete(d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting again is not an error.
	if err := s.Delete(d.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := s.Get(d.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
}

func TestAddPreservesRecord(t *testing.T) {
	s := newStore(t)
	want := models.Diagram{
		ID:        "fixed-id",
		Name:      "imported",
		Code:      "pie",
		Theme:     models.ThemeDark,
		CreatedAt: 1000,
		UpdatedAt: 2000,
	}
	if err := s.Add(want); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := s.Get("fixed-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CreatedAt != 1000 || got.UpdatedAt != 2000 || got.Theme != models.ThemeDark {
		t.Errorf("record not preserved: %+v", got)
	}
}

func TestTwoStoresShareState(t *testing.T) {
	backend := kv.NewMemory()
	a := New(backend)
	b := New(backend)

	d, _ := a.Create("shared", "")
	// A second store over the same backend re-reads persisted state on
	// every call, so it sees the first store's write.
	got, err := b.Get(d.ID)
	if err != nil {
		t.Fatalf("Get via second store: %v", err)
	}
	if got.Name != "shared" {
		t.Errorf("name = %q", got.Name)
	}
}
