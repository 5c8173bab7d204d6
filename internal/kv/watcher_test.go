package kv

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func watcherTestEnv(t *testing.T) (*File, *slog.Logger) {
	t.Helper()
	backend, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return backend, logger
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_ReportsKeyOnWrite(t *testing.T) {
	backend, logger := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var keys []string

	go Watch(ctx, backend, logger, func(key string) {
		mu.Lock()
		keys = append(keys, key)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	if err := backend.Set(KeyDiagrams, []byte("[]")); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, k := range keys {
			if k == KeyDiagrams {
				return true
			}
		}
		return false
	}, "expected diagrams key change callback")
}

func TestWatch_IgnoresTempAndForeignFiles(t *testing.T) {
	backend, logger := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var keys []string

	go Watch(ctx, backend, logger, func(key string) {
		mu.Lock()
		keys = append(keys, key)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(backend.Root(), ".dagaz-tmp-123"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(backend.Root(), "notes.txt"), []byte("x"), 0o644)

	// Give the watcher time to (wrongly) report either file.
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(keys) != 0 {
		t.Errorf("unexpected callbacks: %v", keys)
	}
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	backend, logger := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, backend, logger, nil)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v, want nil on cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
