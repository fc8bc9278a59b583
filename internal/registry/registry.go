// Package registry manages the components and views known to the
// server, and notifies watchers when registrations change so routes
// and caches can react.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/weaver/internal/compose"
)

// EventType represents the type of registry event.
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

// Event represents a change in the component registry.
type Event struct {
	Type      EventType
	Component *compose.Component
	Timestamp time.Time
}

// ComponentRegistry holds every registered component and its views.
type ComponentRegistry struct {
	mu         sync.RWMutex
	components map[string]*compose.Component
	watchers   []chan Event
}

// New creates an empty component registry.
func New() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*compose.Component),
	}
}

// Register adds or replaces a component, notifying watchers.
func (r *ComponentRegistry) Register(component *compose.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.components[component.Path]; exists {
		eventType = EventTypeUpdated
	}
	r.components[component.Path] = component

	r.notify(Event{Type: eventType, Component: component, Timestamp: time.Now()})
}

// Remove deletes a component, notifying watchers.
func (r *ComponentRegistry) Remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	component, exists := r.components[path]
	if !exists {
		return
	}
	delete(r.components, path)

	r.notify(Event{Type: EventTypeRemoved, Component: component, Timestamp: time.Now()})
}

// Get retrieves a component by path.
func (r *ComponentRegistry) Get(path string) (*compose.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	component, exists := r.components[path]
	return component, exists
}

// View resolves a (component, view) pair in one lookup.
func (r *ComponentRegistry) View(componentPath, viewName string) (*compose.Component, *compose.View, bool) {
	component, ok := r.Get(componentPath)
	if !ok {
		return nil, nil, false
	}
	view, ok := component.View(viewName)
	if !ok {
		return nil, nil, false
	}
	return component, view, true
}

// Paths returns the registered component paths, sorted.
func (r *ComponentRegistry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.components))
	for path := range r.components {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Count returns the number of registered components.
func (r *ComponentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}

// Watch returns a channel receiving registry events.
func (r *ComponentRegistry) Watch() <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Event, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it.
func (r *ComponentRegistry) UnWatch(ch <-chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// notify is called with r.mu held.
func (r *ComponentRegistry) notify(event Event) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
