package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates cached navigation contexts when their files change.
// It blocks until ctx is cancelled. Only useful in LoadModeOnce.
func (c *Configuration) Watch(ctx context.Context) error {
	if c.path == "" {
		return ErrConfigPathNotSet
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(c.path); err != nil {
		return fmt.Errorf("failed to watch %q: %w", c.path, err)
	}

	c.logger.Info("navigation watcher started", "path", c.path)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("navigation watcher stopped")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			name, ok := ContextForFile(event.Name)
			if !ok {
				continue
			}

			c.logger.Debug("navigation file changed", "file", event.Name, "op", event.Op.String())
			c.Invalidate(name)

		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			c.logger.Error("navigation watcher error", "error", err)
		}
	}
}

// ContextForFile returns the navigation context a file belongs to.
func ContextForFile(path string) (string, bool) {
	base := filepath.Base(path)
	if base == FileSuffix {
		return DefaultContext, true
	}

	name, ok := strings.CutSuffix(base, "_"+FileSuffix)
	if !ok || name == "" {
		return "", false
	}

	return name, true
}
