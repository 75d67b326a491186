package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher posts a reload request every time aggregates.yml changes,
// grounded on the fsnotify event-loop shape in
// writerslogic-witnessd/internal/watcher. Unlike that package's own
// debounce-and-hash pipeline, a config reload has no meaningful
// "stable" state to wait for, so every Write/Create is forwarded
// directly — the caller (the registry's single update-loop owner, per
// the root package's "not safe for concurrent use" note) decides when
// to drain Reloads() and call Apply.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	reloads   chan struct{}
	errors    chan error
	done      chan struct{}
}

// Watch starts watching path's directory for changes to path itself.
func Watch(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		path:      filepath.Clean(path),
		reloads:   make(chan struct{}, 1),
		errors:    make(chan error, 1),
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Reloads emits a value every time the watched file changes. The
// channel is buffered to depth 1 and coalesces bursts: a reload request
// already pending is not duplicated.
func (w *Watcher) Reloads() <-chan struct{} { return w.reloads }

func (w *Watcher) Errors() <-chan error { return w.errors }

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case w.reloads <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}
