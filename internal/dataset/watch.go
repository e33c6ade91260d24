package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadFunc receives the freshly loaded dataset after a change.
type ReloadFunc func(ctx context.Context, ds *Dataset) error

// Watcher reloads the data files when they change on disk.
type Watcher struct {
	files    Files
	debounce time.Duration
	onReload ReloadFunc
	logger   *zap.Logger
}

// NewWatcher creates a watcher for files. Changes arriving within debounce
// of each other trigger a single reload.
func NewWatcher(files Files, debounce time.Duration, onReload ReloadFunc, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{files: files, debounce: debounce, onReload: onReload, logger: logger}
}

// Run watches until ctx is cancelled. The directories are watched rather
// than the files so that atomic replace-by-rename is seen.
func (w *Watcher) Run(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	targets := map[string]bool{
		filepath.Clean(w.files.Cards):     true,
		filepath.Clean(w.files.Campaigns): true,
	}
	dirs := map[string]bool{}
	for path := range targets {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("data file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	start := time.Now()
	ds, err := Load(ctx, w.files)
	if err != nil {
		w.logger.Error("failed to reload data files", zap.Error(err))
		return
	}
	if err := w.onReload(ctx, ds); err != nil {
		w.logger.Error("failed to apply reloaded data", zap.Error(err))
		return
	}
	w.logger.Info("data reloaded",
		zap.Int("cards", len(ds.Cards)),
		zap.Int("campaigns", len(ds.Campaigns)),
		zap.Duration("took", time.Since(start)))
}
