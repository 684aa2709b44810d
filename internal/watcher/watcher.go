// Package watcher drives live reload of the editor's overlay assets during
// development. Changes to html/css/js files under the watched directory are
// debounced per path and reported through a single callback.
package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType classifies a file system change.
type EventType string

const (
	EventCreate EventType = "create"
	EventModify EventType = "modify"
	EventDelete EventType = "delete"
	EventRename EventType = "rename"
)

// Event is one debounced change to a watched asset.
type Event struct {
	Path string
	Type EventType
}

var assetExts = map[string]bool{
	".html": true,
	".css":  true,
	".js":   true,
}

// Watcher watches an asset directory and debounces change bursts so a save
// that touches several files produces one reload per file, not one per write.
type Watcher struct {
	path     string
	debounce time.Duration
	callback func(Event)
	watcher  *fsnotify.Watcher
	done     chan struct{}
	started  bool
	closed   bool
	mu       sync.Mutex

	timers  map[string]*time.Timer
	timerMu sync.Mutex
}

// New creates a Watcher for the given asset directory.
func New(path string, debounce time.Duration, callback func(Event)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch path %s: %w", path, err)
	}

	return &Watcher{
		path:     path,
		debounce: debounce,
		callback: callback,
		watcher:  fsw,
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// AddPath adds an additional directory to watch.
func (w *Watcher) AddPath(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	return w.watcher.Add(path)
}

// Start begins delivering events.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	if w.started {
		return fmt.Errorf("watcher already started")
	}
	w.started = true

	go w.watch()
	return nil
}

// Close stops watching and cancels pending debounce timers.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.started {
		close(w.done)
	}

	w.timerMu.Lock()
	for _, timer := range w.timers {
		timer.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.timerMu.Unlock()

	return w.watcher.Close()
}

func (w *Watcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !assetExts[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}

	var eventType EventType
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		eventType = EventCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		eventType = EventModify
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		eventType = EventDelete
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		eventType = EventRename
	default:
		return
	}

	w.debounceEvent(Event{Path: event.Name, Type: eventType})
}

// debounceEvent restarts the timer for the path so only the last change in a
// burst fires the callback.
func (w *Watcher) debounceEvent(e Event) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if timer, exists := w.timers[e.Path]; exists {
		timer.Stop()
	}

	w.timers[e.Path] = time.AfterFunc(w.debounce, func() {
		w.timerMu.Lock()
		delete(w.timers, e.Path)
		w.timerMu.Unlock()

		w.callback(e)
	})
}
