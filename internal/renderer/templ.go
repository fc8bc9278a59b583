package renderer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/a-h/templ"
)

// TechnologyTempl is the registry key for the templ component engine.
const TechnologyTempl = "templ"

// ComponentFunc constructs a templ component from the enriched view
// data. Views rendered by this engine name a registered component
// instead of carrying template source.
type ComponentFunc func(data map[string]any) templ.Component

// TemplEngine adapts a-h/templ components to the Engine interface. The
// view's template field is interpreted as the registered component
// name.
type TemplEngine struct {
	mu         sync.RWMutex
	components map[string]ComponentFunc
}

// NewTemplEngine creates an empty templ engine.
func NewTemplEngine() *TemplEngine {
	return &TemplEngine{
		components: make(map[string]ComponentFunc),
	}
}

// RegisterComponent makes fn renderable under name.
func (e *TemplEngine) RegisterComponent(name string, fn ComponentFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.components[name] = fn
}

// Render looks up the component registered under name and renders it
// with data.
func (e *TemplEngine) Render(ctx context.Context, name string, data map[string]any) (string, error) {
	e.mu.RLock()
	fn, ok := e.components[name]
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("templ component %q not registered", name)
	}

	var buf strings.Builder
	if err := fn(data).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("rendering templ component %q: %w", name, err)
	}
	return buf.String(), nil
}
