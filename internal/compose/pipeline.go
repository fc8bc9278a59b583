package compose

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/conneroisu/weaver/internal/cache"
	"github.com/conneroisu/weaver/internal/errors"
	"github.com/conneroisu/weaver/internal/logging"
	"github.com/conneroisu/weaver/internal/renderer"
)

// Request carries everything the pipeline needs to compose one view.
type Request struct {
	// URL is the full request URL including query string; part of the
	// cache key.
	URL string
	// Params are the admitted request parameter values.
	Params map[string]string
	// DataOnly skips rendering and responds with the enriched data.
	DataOnly bool
	// NestLevel is the fragment's depth in the composed page.
	NestLevel int
}

// Result is the pipeline's response for one request.
type Result struct {
	Body        []byte
	ContentType string
	// CacheHit reports whether Body came from the render cache.
	CacheHit bool
	// DataOnly reports whether Body is the serialized context data.
	DataOnly bool
}

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

// Pipeline composes (component, view) pairs into responses. The
// enrichment, caching and encapsulation rules live here; rendering is
// delegated to the engine registry and dev/prod differences to the
// Strategy chosen at startup.
type Pipeline struct {
	global    ScopeConfig
	engines   *renderer.Registry
	strategy  Strategy
	wrapper   WrapperConfig
	serverURL string
	logger    logging.Logger
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	// Global is the app-wide scope configuration.
	Global ScopeConfig
	// Engines resolves rendering technologies.
	Engines *renderer.Registry
	// Strategy is the dev or prod strategy selected at startup.
	Strategy Strategy
	// Wrapper configures the encapsulation element. Zero value means
	// DefaultWrapper.
	Wrapper WrapperConfig
	// ServerURL is this server's externally visible base URL.
	ServerURL string
	// Logger defaults to a nop logger.
	Logger logging.Logger
}

// NewPipeline creates a composition pipeline.
func NewPipeline(opts PipelineOptions) *Pipeline {
	wrapper := opts.Wrapper
	if wrapper.Tag == "" && wrapper.Classes == nil {
		wrapper = DefaultWrapper
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Pipeline{
		global:    opts.Global,
		engines:   opts.Engines,
		strategy:  opts.Strategy,
		wrapper:   wrapper,
		serverURL: opts.ServerURL,
		logger:    logger,
	}
}

// MergedParams returns the parameter schema for a (component, view)
// pair with scope precedence applied.
func (p *Pipeline) MergedParams(component *Component, view *View) ParamSchema {
	return MergeParams(p.global.Params, component.Config.Params, view.Params)
}

// Compose runs the full composition state machine for one request:
// cache check, context build, enrichment, then a data-only response or
// render, encapsulation, hydration and cache write.
func (p *Pipeline) Compose(ctx context.Context, component *Component, view *View, req Request) (*Result, error) {
	key := cache.Key(component.Path, view.Name, req.URL)

	// The cache is consulted only for full renders; data-only requests
	// and the development strategy always miss.
	if !req.DataOnly {
		if body, ok := p.strategy.Lookup(key); ok {
			p.logger.Debug(ctx, "render cache hit", "component", component.Path, "view", view.Name)
			return &Result{Body: body, ContentType: contentTypeHTML, CacheHit: true}, nil
		}
	}

	if err := p.validateParams(component, view, req.Params); err != nil {
		return nil, err
	}

	c := NewContext(component.Path, view.Name, p.serverURL, req.Params, req.NestLevel, view.Blueprint)

	if err := runEnrichment(ctx, c, p.global.Factories, component.Config.Factories, view.Factories); err != nil {
		return nil, fmt.Errorf("enriching %s/%s: %w", component.Path, view.Name, err)
	}

	if req.DataOnly {
		body, err := json.Marshal(c.Data)
		if err != nil {
			return nil, fmt.Errorf("serializing data for %s/%s: %w", component.Path, view.Name, err)
		}
		return &Result{Body: body, ContentType: contentTypeJSON, DataOnly: true}, nil
	}

	template, overridden := c.TemplateOverride()
	if !overridden {
		var err error
		template, err = p.strategy.Template(view)
		if err != nil {
			return nil, fmt.Errorf("resolving template for %s/%s: %w", component.Path, view.Name, err)
		}
	}

	markup, err := p.engines.Render(ctx, view.Technology, template, c.Data)
	if err != nil {
		return nil, fmt.Errorf("rendering %s/%s: %w", component.Path, view.Name, err)
	}

	if !view.Blueprint {
		markup = Encapsulate(p.wrapper, c, markup)
	}

	hydration, err := Hydration(c)
	if err != nil {
		return nil, err
	}
	markup += hydration

	markup, err = p.strategy.Finalize(view, markup)
	if err != nil {
		return nil, err
	}

	body := []byte(markup)
	p.strategy.Store(key, body, view.CacheTTL)
	p.logger.Debug(ctx, "render cache write", "component", component.Path, "view", view.Name)

	return &Result{Body: body, ContentType: contentTypeHTML}, nil
}

// validateParams enforces the merged schema's required parameters.
func (p *Pipeline) validateParams(component *Component, view *View, params map[string]string) error {
	for name, param := range p.MergedParams(component, view) {
		if !param.Required {
			continue
		}
		if _, ok := params[name]; !ok {
			return errors.NewValidation(name,
				fmt.Sprintf("required %s parameter missing for %s/%s", param.Source, component.Path, view.Name))
		}
	}
	return nil
}
