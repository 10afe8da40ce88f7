package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// Sent when the last imported file was changed on disk.
type fileChangedMsg struct {
	path string
}

// fileWatcher watches the most recently imported file and notifies the interface when it changes.
// Directories are watched instead of the file itself because most editors replace files on save.
type fileWatcher struct {
	watcher   *fsnotify.Watcher
	logger    *slog.Logger
	debouncer func(f func())
	send      func(tea.Msg)

	mu   sync.Mutex
	path string
}

func newFileWatcher(logger *slog.Logger, delay time.Duration, send func(tea.Msg)) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cannot create watcher: %w", err)
	}
	return &fileWatcher{
		watcher:   watcher,
		logger:    logger,
		debouncer: debounce.New(delay),
		send:      send,
	}, nil
}

// Watch replaces the currently watched file with path.
func (w *fileWatcher) Watch(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot watch %q: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.path == path {
		return nil
	}
	if len(w.path) > 0 {
		_ = w.watcher.Remove(filepath.Dir(w.path))
	}
	if err := w.watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("cannot add directory of %q to watcher: %w", path, err)
	}
	w.path = path
	w.logger.Debug("Watching file", "path", path)
	return nil
}

func (w *fileWatcher) watched() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Run the file watcher on the current thread until ctx is cancelled.
func (w *fileWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path := w.watched()
			if filepath.Clean(event.Name) != path {
				continue
			}
			w.debouncer(func() {
				w.logger.Info("Imported file changed on disk", "path", path)
				w.send(fileChangedMsg{path: path})
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
