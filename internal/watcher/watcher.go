// Package watcher reloads the embedding file while the server runs.
//
// `escrituras embed` writes the file with a temp-and-rename, so a change
// shows up as a single rename/create event in the data directory. The
// watcher debounces events for the embedding file and swaps a freshly
// loaded vector store into the shared Holder, letting semantic search
// recover from degraded mode without a restart.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/noahread/escrituras/internal/vector"
)

// DefaultDebounce coalesces the event bursts a rename produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one embedding file and publishes reloads through a
// vector.Holder.
type Watcher struct {
	path     string
	holder   *vector.Holder
	validate func(*vector.Store) error
	debounce time.Duration
	logger   *slog.Logger

	fsw *fsnotify.Watcher

	// reloaded receives the result of each reload attempt; tests use it
	// to synchronize.
	reloaded chan error
}

// New creates a watcher for the embedding file at path, updating holder on
// every rewrite. A non-nil validate runs against each freshly opened store;
// a rejected store never reaches the holder. debounce <= 0 uses the default
// window.
func New(path string, holder *vector.Holder, validate func(*vector.Store) error, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: rename-into-place replaces the
	// inode, and a missing file can appear later.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return &Watcher{
		path:     path,
		holder:   holder,
		validate: validate,
		debounce: debounce,
		logger:   slog.Default(),
		fsw:      fsw,
		reloaded: make(chan error, 16),
	}, nil
}

// Reloaded exposes reload outcomes. Receives are optional; the channel is
// buffered and drops when full.
func (w *Watcher) Reloaded() <-chan error {
	return w.reloaded
}

// Run watches until ctx is canceled. Reload failures are logged and leave
// the previous store in place.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	err := w.swapIn()

	select {
	case w.reloaded <- err:
	default:
	}
}

// swapIn opens the embedding file and publishes it through the holder. A
// file that fails to parse or fails validation leaves the previous store
// in place.
func (w *Watcher) swapIn() error {
	store, err := vector.Open(w.path)
	if err != nil {
		w.logger.Warn("embedding reload failed, keeping previous vectors",
			"path", w.path, "error", err)
		return err
	}
	if w.validate != nil {
		if err := w.validate(store); err != nil {
			w.logger.Warn("embedding reload refused, keeping previous vectors",
				"path", w.path, "model", store.ModelName(), "error", err)
			return err
		}
	}

	w.holder.Swap(store)
	w.logger.Info("embedding file reloaded",
		"path", w.path,
		"model", store.ModelName(),
		"vectors", store.Count())
	return nil
}
