package compose

import (
	"time"

	"github.com/conneroisu/weaver/internal/cache"
	"github.com/conneroisu/weaver/internal/errors"
)

// TemplateSource fetches the freshest template for a view. Development
// mode calls it immediately before every render so template edits take
// effect without a restart.
type TemplateSource func(view *View) (string, error)

// Transform post-processes rendered blueprint markup. Development mode
// uses it to inject the hot-reload client.
type Transform func(markup string) (string, error)

// Strategy fixes the dev/prod behavioral differences of the pipeline
// at startup so the per-request path stays branch-free: cache
// consultation, template refresh, and post-render transforms.
type Strategy interface {
	// Lookup consults the render cache. Always a miss in development.
	Lookup(key string) ([]byte, bool)
	// Store writes rendered bytes to the cache. No-op in development.
	Store(key string, body []byte, ttl time.Duration)
	// Template resolves the template to render for the view.
	Template(view *View) (string, error)
	// Finalize applies post-render transforms to the outgoing markup.
	Finalize(view *View, markup string) (string, error)
}

// ProductionStrategy caches rendered output and renders the template
// recorded on the view.
type ProductionStrategy struct {
	cache *cache.RenderCache
}

// NewProductionStrategy creates the production strategy over the given
// render cache.
func NewProductionStrategy(c *cache.RenderCache) *ProductionStrategy {
	return &ProductionStrategy{cache: c}
}

func (s *ProductionStrategy) Lookup(key string) ([]byte, bool) {
	return s.cache.Get(key)
}

func (s *ProductionStrategy) Store(key string, body []byte, ttl time.Duration) {
	s.cache.Set(key, body, ttl)
}

func (s *ProductionStrategy) Template(view *View) (string, error) {
	return view.Template, nil
}

func (s *ProductionStrategy) Finalize(_ *View, markup string) (string, error) {
	return markup, nil
}

// DevelopmentStrategy never caches, refetches the freshest template
// before each render, and pipes blueprint output through the
// hot-reload transform supplied by the development server.
type DevelopmentStrategy struct {
	templates TemplateSource
	transform Transform
}

// NewDevelopmentStrategy creates the development strategy. templates
// may be nil to fall back to the view's recorded template; transform
// is required for blueprint renders and its absence is a fatal
// configuration error at request time.
func NewDevelopmentStrategy(templates TemplateSource, transform Transform) *DevelopmentStrategy {
	return &DevelopmentStrategy{templates: templates, transform: transform}
}

func (s *DevelopmentStrategy) Lookup(string) ([]byte, bool) {
	return nil, false
}

func (s *DevelopmentStrategy) Store(string, []byte, time.Duration) {}

func (s *DevelopmentStrategy) Template(view *View) (string, error) {
	if s.templates == nil {
		return view.Template, nil
	}
	return s.templates(view)
}

func (s *DevelopmentStrategy) Finalize(view *View, markup string) (string, error) {
	if !view.Blueprint {
		return markup, nil
	}
	if s.transform == nil {
		return "", errors.NewConfiguration(view.Component,
			"development mode requires a hot-reload transform for blueprint views")
	}
	return s.transform(markup)
}
