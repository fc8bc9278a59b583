// Package watcher provides debounced template file watching for
// development mode. Change batches trigger a hot-reload broadcast to
// connected clients.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents one debounced template file change.
type ChangeEvent struct {
	Path    string
	ModTime time.Time
}

// Filter reports whether a changed path is interesting.
type Filter func(path string) bool

// Handler receives batches of debounced change events.
type Handler func(events []ChangeEvent)

// TemplateWatcher watches template directories and delivers debounced
// change batches to its handlers.
type TemplateWatcher struct {
	watcher  *fsnotify.Watcher
	delay    time.Duration
	mu       sync.RWMutex
	filters  []Filter
	handlers []Handler

	pending   []ChangeEvent
	pendingMu sync.Mutex
	timer     *time.Timer
}

// New creates a template watcher with the given debounce delay.
func New(delay time.Duration) (*TemplateWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &TemplateWatcher{
		watcher: fsw,
		delay:   delay,
	}, nil
}

// AddFilter adds a path filter. A path must pass every filter to be
// reported.
func (w *TemplateWatcher) AddFilter(filter Filter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.filters = append(w.filters, filter)
}

// AddHandler registers a change batch handler.
func (w *TemplateWatcher) AddHandler(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// AddPath watches a file or directory.
func (w *TemplateWatcher) AddPath(path string) error {
	return w.watcher.Add(path)
}

// Start runs the watch loop until ctx is cancelled.
func (w *TemplateWatcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop closes the underlying watcher.
func (w *TemplateWatcher) Stop() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.watcher.Close()
}

func (w *TemplateWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.accept(event.Name) {
				continue
			}
			w.enqueue(ChangeEvent{Path: event.Name, ModTime: time.Now()})
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *TemplateWatcher) accept(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, filter := range w.filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

// enqueue collects events until the debounce window closes, then fires
// the handlers once with the whole batch.
func (w *TemplateWatcher) enqueue(event ChangeEvent) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending = append(w.pending, event)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.flush)
}

func (w *TemplateWatcher) flush() {
	w.pendingMu.Lock()
	batch := w.pending
	w.pending = nil
	w.pendingMu.Unlock()

	if len(batch) == 0 {
		return
	}

	w.mu.RLock()
	handlers := w.handlers
	w.mu.RUnlock()
	for _, handler := range handlers {
		handler(batch)
	}
}
