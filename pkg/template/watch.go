package template

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 100 * time.Millisecond

// Watch reloads templates when files under the application directories
// change. It blocks until ctx is done. Only environments created with
// NewFromDirs can be watched.
func (e *Environment) Watch(ctx context.Context) error {
	if len(e.dirs) == 0 {
		return ErrNoReload
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range e.dirs {
		if err := addTree(watcher, dir); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(reloadDelay)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// New sub directories are not watched automatically.
				_ = addTree(watcher, event.Name)
			}
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.WarnContext(ctx, "template watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			if err := e.Reload(); err != nil {
				e.logger.ErrorContext(ctx, "template reload failed", slog.String("error", err.Error()))
				continue
			}
			e.logger.DebugContext(ctx, "templates reloaded")
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
