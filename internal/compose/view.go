// Package compose implements the view composition pipeline: merged
// multi-scope configuration, ordered asynchronous enrichment, pluggable
// rendering, encapsulation of embedded fragments, hydration payload
// emission, and TTL caching of rendered output.
//
// A request flows cache check, context build, enrichment groups
// (global, then component, then view), then either a data-only
// response or render, encapsulate, hydrate, cache write. Development
// and production differ only in the Strategy selected at startup.
package compose

import (
	"context"
	"time"
)

// Param describes one request parameter a view accepts.
type Param struct {
	Source   string `json:"source" yaml:"source"` // "path", "query" or "header"
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
}

// ParamSchema is a named set of parameter declarations contributed by
// one configuration scope.
type ParamSchema map[string]Param

// FactoryFunc is an enrichment step. It may read and write c.Data and
// may block; errors abort the request and bubble to the transport's
// error handler.
type FactoryFunc func(ctx context.Context, c *Context) error

// Factory is a named enrichment step with an execution priority.
// Within a scope group, factories run in ascending priority order;
// equal priorities keep declaration order.
type Factory struct {
	Name     string
	Priority int
	Fn       FactoryFunc
}

// ScopeConfig is the configuration one scope (global, component or
// view) contributes to a render: its enrichment steps and its
// parameter schema fragment.
type ScopeConfig struct {
	Factories []Factory
	Params    ParamSchema
}

// View is a named template plus enrichment and configuration bundle
// belonging to a component or blueprint.
type View struct {
	// Component is the owning component's path segment.
	Component string
	// Name identifies the view within its component.
	Name string
	// Template is the template reference handed to the rendering
	// engine. Its meaning depends on the technology.
	Template string
	// TemplatePath is the source file the template was loaded from,
	// when it came from disk. Development mode re-reads it before
	// every render.
	TemplatePath string
	// Technology selects the rendering engine.
	Technology string
	// Factories are the view-scope enrichment steps.
	Factories []Factory
	// Params is the view-scope parameter schema fragment.
	Params ParamSchema
	// CacheTTL overrides the default render cache lifetime when > 0.
	CacheTTL time.Duration
	// Blueprint marks a top-level page. Blueprints are emitted without
	// an encapsulation wrapper.
	Blueprint bool
}

// Component is a registered fragment: a path, its views, and the
// component-scope configuration shared by all of them.
type Component struct {
	Path   string
	Views  map[string]*View
	Config ScopeConfig
}

// View returns the named view of the component.
func (c *Component) View(name string) (*View, bool) {
	v, ok := c.Views[name]
	return v, ok
}
