package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File implements Backend with one file per key under a data directory.
type File struct {
	root string // absolute path to data directory
}

// NewFile creates a File backend rooted at the given directory.
// The directory must already exist.
func NewFile(root string) (*File, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("kv: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("kv: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("kv: root is not a directory: %s", abs)
	}
	return &File{root: abs}, nil
}

// KeyFilename returns the file name a key is stored under.
func KeyFilename(key string) string {
	return key + ".json"
}

// keyPath maps a key to its absolute file path and rejects anything that
// would escape the data directory.
func (f *File) keyPath(key string) (string, error) {
	if key == "" {
		return "", errors.New("kv: empty key")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("kv: invalid key: %s", key)
	}
	return filepath.Join(f.root, KeyFilename(key)), nil
}

// Get reads the value stored under key.
func (f *File) Get(key string) ([]byte, bool, error) {
	path, err := f.keyPath(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv: read %s: %w", key, err)
	}
	return data, true, nil
}

// Set atomically writes the value: tmp file → fsync → rename.
func (f *File) Set(key string, value []byte) error {
	path, err := f.keyPath(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".dagaz-tmp-*")
	if err != nil {
		return fmt.Errorf("kv: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("kv: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("kv: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kv: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("kv: rename: %w", err)
	}
	success = true
	return nil
}

// Close is a no-op for the file backend.
func (f *File) Close() error { return nil }

// Root returns the absolute data directory, for the change watcher.
func (f *File) Root() string { return f.root }
