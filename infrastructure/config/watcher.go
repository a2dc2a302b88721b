package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	domainconfig "github.com/felixgeelhaar/time-server/domain/config"
	"github.com/felixgeelhaar/time-server/infrastructure/logging"
)

// ChangeHandler receives a configuration that was reloaded from disk.
type ChangeHandler func(cfg *domainconfig.ServerConfig)

// Watcher reloads a configuration file whenever it changes on disk.
// Invalid revisions are logged and skipped; the last good one stays active.
type Watcher struct {
	path     string
	loader   *Loader
	onChange ChangeHandler
}

// NewWatcher creates a watcher for the file at path.
func NewWatcher(path string, loader *Loader, onChange ChangeHandler) *Watcher {
	if loader == nil {
		loader = NewLoader()
	}
	return &Watcher{path: path, loader: loader, onChange: onChange}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	logging.Info().
		Add(logging.Component("config")).
		Add(logging.Path(absPath)).
		Msg("watching configuration")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload(absPath)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().
				Add(logging.Component("config")).
				Add(logging.ErrorField(err)).
				Msg("config watcher error")
		}
	}
}

func (w *Watcher) reload(path string) {
	cfg, err := w.loader.LoadFile(path)
	if err != nil {
		logging.Warn().
			Add(logging.Component("config")).
			Add(logging.Path(path)).
			Add(logging.ErrorField(err)).
			Msg("ignoring invalid configuration change")
		return
	}

	logging.Info().
		Add(logging.Component("config")).
		Add(logging.Path(path)).
		Msg("configuration reloaded")

	if w.onChange != nil {
		w.onChange(cfg)
	}
}
