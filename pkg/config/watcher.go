package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps a Config in sync with its file.
//
// Readers call Current and get either the previous or the new Config, never
// a mix of the two. A file that fails to decode or validate is logged and
// ignored; the last good Config stays current.
type Watcher struct {
	path    string
	log     *slog.Logger
	current atomic.Pointer[Config]
	fsw     *fsnotify.Watcher
}

// NewWatcher loads path and starts watching its directory. The directory
// is watched rather than the file so editors that replace the file by
// rename are picked up.
func NewWatcher(path string, log *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := Load(abs)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path: abs,
		log:  log,
		fsw:  fsw,
	}
	w.current.Store(cfg)
	return w, nil
}

// Current returns the latest valid Config. Callers must not modify it.
func (w *Watcher) Current() *Config {
	return w.current.Load()
}

// Run handles file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("config watcher error", "err", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn("config reload failed, keeping previous", "path", w.path, "err", err)
		return
	}
	w.current.Store(cfg)
	w.log.Info("config reloaded", "path", w.path)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
