package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is how long writes to the watched file settle before a
// replot.
const defaultDebounce = 250 * time.Millisecond

// paramsWatcher re-runs a callback when one file changes. The parent
// directory is watched so editors that save by rename are still seen.
type paramsWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// newParamsWatcher starts watching path; events arrive once Run is called.
func newParamsWatcher(path string, debounce time.Duration, logger *slog.Logger) (*paramsWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &paramsWatcher{path: abs, debounce: debounce, logger: logger, watcher: fsw}, nil
}

// Run calls onChange after each settled burst of writes until ctx is done.
// Errors from onChange are logged; a half-saved file should not end the
// session.
func (w *paramsWatcher) Run(ctx context.Context, onChange func() error) error {
	defer w.watcher.Close()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				w.logger.Debug("Params file changed", "path", w.path, "op", event.Op.String())
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			if err := onChange(); err != nil {
				w.logger.Warn("Replot failed", "path", w.path, "error", err)
			}
		}
	}
}
