package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the settings file when it changes. It has no goroutine of
// its own: the control loop calls Poll, which never blocks.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher watches the directory holding path, so editors that replace the
// file by rename are seen too.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{path: abs, watcher: w}, nil
}

// Poll drains pending file events. If the settings file was written or
// replaced it is reloaded; the new settings are returned with ok true. A file
// that no longer loads is logged and ignored.
func (w *Watcher) Poll() (s *Settings, ok bool) {
	changed := false
	for {
		select {
		case event, open := <-w.watcher.Events:
			if !open {
				return nil, false
			}
			if filepath.Clean(event.Name) == w.path &&
				(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)) {
				changed = true
			}
			continue
		case err, open := <-w.watcher.Errors:
			if !open {
				return nil, false
			}
			slog.Warn("config: watcher error", "err", err)
			continue
		default:
		}
		break
	}
	if !changed {
		return nil, false
	}
	next, _, err := Load(w.path)
	if err != nil {
		slog.Warn("config: reload failed, keeping previous settings", "path", w.path, "err", err)
		return nil, false
	}
	slog.Info("config: reloaded", "path", w.path)
	return next, true
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
