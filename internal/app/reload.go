package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay coalesces the events of one save (truncate + write, or write to
// temp + rename) into a single check.
const settleDelay = 100 * time.Millisecond

// CalibrationWatcher watches the overlay calibration file and reports when the
// calibration tooling rewrites it. Grid dimensions and arena bounds are fixed
// for the life of a session, so a new calibration needs a restart.
type CalibrationWatcher struct {
	path          string
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func()
	onTick        func()
}

// NewCalibrationWatcher records the current modification time of path.
// Returns nil if the file cannot be stat'ed.
func NewCalibrationWatcher(path string, checkInterval time.Duration) *CalibrationWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &CalibrationWatcher{
		path:          path,
		baseline:      info.ModTime(),
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
}

// OnChange sets the callback for a rewritten calibration. It runs on the
// watcher goroutine.
func (w *CalibrationWatcher) OnChange(callback func()) {
	w.onChange = callback
}

// OnTick sets a callback run every check interval, used for periodic housekeeping
// such as saving preferences.
func (w *CalibrationWatcher) OnTick(callback func()) {
	w.onTick = callback
}

// Start begins watching in a background goroutine. The containing
// directory is watched so that files replaced by rename are still seen.
func (w *CalibrationWatcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.stopCh = make(chan struct{})
	go w.watchLoop(fsw)
	return nil
}

// Stop ends watching.
func (w *CalibrationWatcher) Stop() {
	close(w.stopCh)
}

func (w *CalibrationWatcher) watchLoop(fsw *fsnotify.Watcher) {
	defer fsw.Close()
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	target := filepath.Clean(w.path)
	var settle <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.onTick != nil {
				w.onTick()
			}
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Chmod) != 0 {
				settle = time.After(settleDelay)
			}
		case <-fsw.Errors:
		case <-settle:
			settle = nil
			if w.Changed() && w.onChange != nil {
				w.onChange()
				// one notification per baseline
				return
			}
		}
	}
}

// Changed reports whether the file is newer than the baseline.
func (w *CalibrationWatcher) Changed() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	return info.ModTime().After(w.baseline)
}

// Path returns the watched calibration path.
func (w *CalibrationWatcher) Path() string {
	return w.path
}

// ResetBaseline accepts the current file as seen. Call it when the operator
// declines a restart.
func (w *CalibrationWatcher) ResetBaseline() {
	if info, err := os.Stat(w.path); err == nil {
		w.baseline = info.ModTime()
	}
}

// Restart replaces the current process with a fresh editor, preserving the
// command line and environment. It does not return on success.
func Restart() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	return syscall.Exec(exe, os.Args, os.Environ())
}
