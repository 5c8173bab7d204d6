package kv

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called when a key's file changes on disk outside the
// running process (another instance, a restored backup, a manual edit).
type ChangeCallback func(key string)

// Watch starts an fsnotify watcher on the file backend's data directory and
// reports key changes until ctx is cancelled. Temp files from atomic writes
// are ignored; only the post-rename event for a key file is reported.
func Watch(ctx context.Context, backend *File, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(backend.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", backend.Root()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if strings.HasPrefix(name, ".dagaz-tmp-") || !strings.HasSuffix(name, ".json") {
				continue
			}
			key := strings.TrimSuffix(name, ".json")
			logger.Debug("watcher: key changed", slog.String("key", key))
			if cb != nil {
				cb(key)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
