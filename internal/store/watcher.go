package store

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals when the todo file changes on disk, so edits made
// outside grudge show up without a restart. It watches the parent
// directory rather than the file: editors and our own atomic save replace
// the file by rename, which would silently detach a direct file watch.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	fileName  string
	events    chan struct{}
	stop      chan struct{}
	debounce  *time.Timer
	mu        sync.Mutex
	closed    bool
}

// NewWatcher watches the directory containing path for changes to path.
// The directory must exist.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		fileName:  filepath.Base(path),
		events:    make(chan struct{}, 1),
		stop:      make(chan struct{}),
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// run processes file system events.
func (w *Watcher) run() {
	defer func() {
		w.mu.Lock()
		w.closed = true
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.mu.Unlock()
		close(w.events)
	}()

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.fileName {
				continue
			}

			w.mu.Lock()
			// Debounce: wait 100ms for more events before signaling
			if w.debounce != nil {
				w.debounce.Stop()
			}
			w.debounce = time.AfterFunc(100*time.Millisecond, func() {
				w.mu.Lock()
				defer w.mu.Unlock()

				if w.closed {
					return
				}

				select {
				case w.events <- struct{}{}:
				default: // Channel full, skip
				}
			})
			w.mu.Unlock()
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Ignore errors, continue watching
		}
	}
}

// Events returns a channel that signals when the todo file changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Stop shuts down the watcher.
func (w *Watcher) Stop() {
	close(w.stop)
	w.fsWatcher.Close()
}
