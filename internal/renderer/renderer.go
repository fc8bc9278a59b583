// Package renderer provides the pluggable rendering engines invoked by
// the composition pipeline.
//
// An Engine turns a template plus a data context into markup for one
// UI-templating technology. Engines are registered under a technology
// key; views declare which technology renders them. The package ships
// an html/template engine and an adapter for a-h/templ components.
package renderer

import (
	"context"
	"fmt"
	"sync"
)

// Engine renders a named template with the given data into markup.
// Implementations may block on I/O and must honor ctx cancellation.
type Engine interface {
	Render(ctx context.Context, template string, data map[string]any) (string, error)
}

// Registry maps technology keys to their engines.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]Engine),
	}
}

// Register stores engine under the technology key, replacing any
// previous registration.
func (r *Registry) Register(technology string, engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[technology] = engine
}

// Get returns the engine for technology.
func (r *Registry) Get(technology string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	engine, ok := r.engines[technology]
	return engine, ok
}

// Technologies lists the registered technology keys.
func (r *Registry) Technologies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.engines))
	for key := range r.engines {
		keys = append(keys, key)
	}
	return keys
}

// Render dispatches to the engine registered for technology.
func (r *Registry) Render(ctx context.Context, technology, template string, data map[string]any) (string, error) {
	engine, ok := r.Get(technology)
	if !ok {
		return "", fmt.Errorf("no engine registered for technology %q", technology)
	}
	return engine.Render(ctx, template, data)
}
