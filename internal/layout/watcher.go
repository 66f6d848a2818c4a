package layout

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a Registry whenever its layouts file changes on disk.
type Watcher struct {
	registry *Registry
	path     string
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher

	// reloaded is signalled after each reload attempt; used by tests.
	reloaded chan error
}

// NewWatcher creates a watcher for path. The directory is watched rather
// than the file so editors that save by rename are picked up.
func NewWatcher(registry *Registry, path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		registry: registry,
		path:     abs,
		debounce: 250 * time.Millisecond,
		logger:   logger,
		watcher:  fw,
	}, nil
}

// Run processes file events until ctx is cancelled, then closes the
// underlying fsnotify watcher. It always returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

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
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Debounce bursts of writes from a single save
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			err := w.registry.Reload(w.path)
			if err != nil {
				w.logger.Warn("layout reload failed, keeping previous layouts",
					zap.String("path", w.path), zap.Error(err))
			} else {
				w.logger.Info("layouts reloaded",
					zap.String("path", w.path), zap.Strings("layouts", w.registry.Names()))
			}
			if w.reloaded != nil {
				select {
				case w.reloaded <- err:
				default:
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("layout watcher error", zap.Error(err))
		}
	}
}
