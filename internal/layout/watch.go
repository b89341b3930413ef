package layout

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the burst of events an editor save produces
// (truncate + write, or write to temp + rename).
const debounce = 100 * time.Millisecond

// Watcher reports changes to the grid file. It watches the containing
// directory so that files replaced by rename are still seen.
type Watcher struct {
	m        *Map
	fsw      *fsnotify.Watcher
	onChange func(Info)
	onError  func(error)
}

// NewWatcher creates a watcher for m's file. Call Run to start delivering
// events and Close when done.
func (m *Map) NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(m.Path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{m: m, fsw: fsw}, nil
}

// OnChange sets the callback invoked with fresh Info after each change.
func (w *Watcher) OnChange(callback func(Info)) {
	w.onChange = callback
}

// OnError sets the callback for watcher errors.
func (w *Watcher) OnError(callback func(error)) {
	w.onError = callback
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers change notifications until ctx is cancelled or the watcher is
// closed. Callbacks run on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	target := filepath.Clean(w.m.Path)
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			settle = time.After(debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if w.onError != nil {
				w.onError(err)
			}
		case <-settle:
			settle = nil
			if w.onChange != nil {
				w.onChange(w.m.Info())
			}
		}
	}
}

// Watch calls fn with fresh Info each time the grid file changes, until ctx
// is cancelled.
func (m *Map) Watch(ctx context.Context, fn func(Info)) error {
	w, err := m.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	w.OnChange(fn)
	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
