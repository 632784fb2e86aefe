package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reloads one config file whenever it changes on disk. The parent
// directory is watched so editors that save by rename are picked up.
type Watcher struct {
	path   string
	fs     *fsnotify.Watcher
	logger *zap.Logger
}

// NewWatcher registers the watch. Errors here mean no reload will ever fire,
// so callers should treat them as fatal.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, fs: fs, logger: logger}, nil
}

// Close releases the watch without running it.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run hands every reloaded config to fn until ctx is done, then closes the
// watcher. Parse errors are logged and the previous config stays in force.
func (w *Watcher) Run(ctx context.Context, fn func(*Config)) error {
	defer w.fs.Close()

	// Rapid saves are coalesced into one reload.
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", zap.Error(err))

		case <-timer.C:
			cfg, err := Load(w.path)
			if err != nil {
				w.logger.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.logger.Info("config reloaded", zap.String("path", w.path))
			fn(cfg)
		}
	}
}

// Watch is NewWatcher followed by Run. It blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *zap.Logger, fn func(*Config)) error {
	w, err := NewWatcher(path, logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, fn)
}
