package kv

import (
	"os"
	"path/filepath"
	"testing"
)

func tempFileBackend(t *testing.T) *File {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return f
}

func TestFileSetAndGet(t *testing.T) {
	b := tempFileBackend(t)
	value := []byte(`[{"id":"a"}]`)
	if err := b.Set(KeyDiagrams, value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := b.Get(KeyDiagrams)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if string(got) != string(value) {
		t.Errorf("value mismatch: got %q", got)
	}
}

func TestFileGetMissingKey(t *testing.T) {
	b := tempFileBackend(t)
	_, ok, err := b.Get("never-written")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("missing key should report ok=false")
	}
}

func TestFileSetOverwrites(t *testing.T) {
	b := tempFileBackend(t)
	_ = b.Set(KeyCollections, []byte("[1]"))
	if err := b.Set(KeyCollections, []byte("[2]")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _, _ := b.Get(KeyCollections)
	if string(got) != "[2]" {
		t.Errorf("value = %q, want [2]", got)
	}
}

func TestFileInvalidKeys(t *testing.T) {
	b := tempFileBackend(t)
	cases := []string{
		"",
		"../escape",
		"a/b",
		`a\b`,
	}
	for _, k := range cases {
		if err := b.Set(k, []byte("x")); err == nil {
			t.Errorf("key %q should be rejected", k)
		}
	}
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	b := tempFileBackend(t)
	_ = b.Set(KeyDiagrams, []byte("[]"))
	entries, err := os.ReadDir(b.Root())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			t.Errorf("unexpected file after write: %s", e.Name())
		}
	}
}

func TestMemorySetAndGet(t *testing.T) {
	m := NewMemory()
	if err := m.Set(KeyDiagrams, []byte("[]")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := m.Get(KeyDiagrams)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != "[]" {
		t.Errorf("value = %q", got)
	}

	// Mutating the returned slice must not corrupt the stored value.
	got[0] = 'X'
	again, _, _ := m.Get(KeyDiagrams)
	if string(again) != "[]" {
		t.Errorf("stored value mutated: %q", again)
	}
}

func TestMemoryGetMissingKey(t *testing.T) {
	m := NewMemory()
	_, ok, err := m.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("missing key should report ok=false")
	}
}
