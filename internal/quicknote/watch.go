package quicknote

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Editors often write a file in several steps; changes closer together than
// this are handled once.
const watchDebounce = 500 * time.Millisecond

// WatchFile calls onChange after path is written or recreated, until ctx ends.
// The parent directory is watched so that editors replacing the file by rename
// are still seen.
func WatchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch dir %q: %w", filepath.Dir(target), err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			name, _ := filepath.Abs(event.Name)
			if name != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logrus.WithField("op", event.Op.String()).Debug("Notes file changed")
				pending = time.After(watchDebounce)
			}

		case <-pending:
			pending = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logrus.WithError(err).Warn("Watcher error")
		}
	}
}
