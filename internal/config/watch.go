package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk and notifies
// the registered callback with the parsed result.
type Watcher struct {
	path     string
	onChange func(*Config)

	mu    sync.Mutex
	timer *time.Timer
	fsw   *fsnotify.Watcher
}

func NewWatcher(path string, onChange func(*Config)) *Watcher {
	return &Watcher{path: path, onChange: onChange}
}

func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory rather than the file: editors replace the file
	// on save, which drops a file-level watch.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw

	go w.loop(ctx)
	return nil
}

func (w *Watcher) Stop() {
	if w.fsw != nil {
		_ = w.fsw.Close()
	}
}

func (w *Watcher) loop(ctx context.Context) {
	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("Config watcher error", "error", err)
		}
	}
}

// scheduleReload debounces bursts of write events so partial saves are
// not parsed mid-write.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(250*time.Millisecond, func() {
		cfg, err := LoadConfig(w.path)
		if err != nil {
			slog.Warn("Config reload failed", "path", w.path, "error", err)
			return
		}
		slog.Info("Config reloaded", "path", w.path)
		w.onChange(cfg)
	})
}
