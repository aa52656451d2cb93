// Package watch observes the resume content file on disk and reports
// external modifications, so an edit made in a text editor shows up in
// the form without a manual reload.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses the bursts of Write events most editors emit
// when saving a file.
const debounce = 300 * time.Millisecond

// Watcher reports external changes to a single file. Changes written
// through Suppress (our own saves) are ignored.
type Watcher struct {
	path    string
	fw      *fsnotify.Watcher
	onEvent func()

	mu         sync.Mutex
	suppressed time.Time

	done chan struct{}
}

// New starts watching path and invokes onEvent after an external
// modification settles. The parent directory is watched rather than
// the file itself so rename-based saves keep working.
func New(path string, onEvent func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:    path,
		fw:      fw,
		onEvent: onEvent,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Suppress marks the next window of events as self-inflicted. Call it
// right before writing the watched file.
func (w *Watcher) Suppress() {
	w.mu.Lock()
	w.suppressed = time.Now()
	w.mu.Unlock()
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if w.selfInflicted() {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			w.onEvent()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) selfInflicted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Since(w.suppressed) < 2*time.Second
}
