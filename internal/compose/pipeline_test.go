package compose

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/conneroisu/weaver/internal/cache"
	weavererr "github.com/conneroisu/weaver/internal/errors"
	"github.com/conneroisu/weaver/internal/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngines() *renderer.Registry {
	reg := renderer.NewRegistry()
	reg.Register(renderer.TechnologyHTML, renderer.NewHTMLEngine())
	return reg
}

func listView() (*Component, *View) {
	view := &View{
		Component:  "widget",
		Name:       "list",
		Template:   "<ul>{{range .items}}<li>{{.}}</li>{{end}}</ul>",
		Technology: renderer.TechnologyHTML,
		Factories: []Factory{
			{Name: "items", Fn: func(_ context.Context, c *Context) error {
				c.Data["items"] = []string{"alpha", "beta"}
				return nil
			}},
		},
	}
	component := &Component{
		Path:  "widget",
		Views: map[string]*View{"list": view},
	}
	return component, view
}

func TestPipeline_ProductionMissThenHit(t *testing.T) {
	component, view := listView()
	store := cache.New()

	enrichments := 0
	component.Config.Factories = []Factory{
		{Name: "count", Fn: func(_ context.Context, c *Context) error {
			enrichments++
			return nil
		}},
	}

	p := NewPipeline(PipelineOptions{
		Engines:   testEngines(),
		Strategy:  NewProductionStrategy(store),
		ServerURL: "http://localhost:8080",
	})

	req := Request{URL: "/widget/list/", NestLevel: 1}

	first, err := p.Compose(context.Background(), component, view, req)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, enrichments)
	// Non-blueprint output is wrapped and carries a hydration payload.
	assert.True(t, strings.HasPrefix(string(first.Body), `<div class="weaver-component"`))
	assert.Contains(t, string(first.Body), "<li>alpha</li>")
	assert.Contains(t, string(first.Body), HydrationIDPrefix)

	second, err := p.Compose(context.Background(), component, view, req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Body, second.Body)
	// Cache hits skip enrichment entirely.
	assert.Equal(t, 1, enrichments)
}

func TestPipeline_BlueprintUnwrapped(t *testing.T) {
	component, view := listView()
	view.Blueprint = true

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: NewProductionStrategy(cache.New()),
	})

	res, err := p.Compose(context.Background(), component, view, Request{URL: "/widget/list/"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(res.Body), "<ul>"))
	assert.NotContains(t, string(res.Body), AttrComponent)
	// Hydration is still emitted for blueprints.
	assert.Contains(t, string(res.Body), HydrationIDPrefix)
}

func TestPipeline_DataOnly(t *testing.T) {
	component, view := listView()
	store := cache.New()

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: NewProductionStrategy(store),
	})

	res, err := p.Compose(context.Background(), component, view, Request{URL: "/widget/list/?data=only", DataOnly: true})
	require.NoError(t, err)

	assert.True(t, res.DataOnly)
	assert.Equal(t, "application/json", res.ContentType)

	var data map[string]any
	require.NoError(t, json.Unmarshal(res.Body, &data))
	assert.Equal(t, []any{"alpha", "beta"}, data["items"])

	// No render means no cache write.
	assert.Equal(t, 0, store.Len())
}

func TestPipeline_DataOnlySkipsCacheLookup(t *testing.T) {
	component, view := listView()
	store := cache.New()
	store.Set(cache.Key(component.Path, view.Name, "/widget/list/"), []byte("cached markup"), time.Minute)

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: NewProductionStrategy(store),
	})

	res, err := p.Compose(context.Background(), component, view, Request{URL: "/widget/list/", DataOnly: true})
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.True(t, res.DataOnly)
}

func TestPipeline_DevelopmentNeverCaches(t *testing.T) {
	component, view := listView()

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: NewDevelopmentStrategy(nil, nil),
	})

	enrichments := 0
	view.Factories = append(view.Factories, Factory{Name: "count", Fn: func(_ context.Context, _ *Context) error {
		enrichments++
		return nil
	}})

	req := Request{URL: "/widget/list/"}
	_, err := p.Compose(context.Background(), component, view, req)
	require.NoError(t, err)
	_, err = p.Compose(context.Background(), component, view, req)
	require.NoError(t, err)

	assert.Equal(t, 2, enrichments)
}

func TestPipeline_DevelopmentRefreshesTemplate(t *testing.T) {
	component, view := listView()

	fresh := "<ol>{{range .items}}<li>{{.}}</li>{{end}}</ol>"
	strategy := NewDevelopmentStrategy(func(*View) (string, error) {
		return fresh, nil
	}, nil)

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: strategy,
	})

	res, err := p.Compose(context.Background(), component, view, Request{URL: "/widget/list/"})
	require.NoError(t, err)
	assert.Contains(t, string(res.Body), "<ol>")
}

func TestPipeline_DevelopmentBlueprintNeedsTransform(t *testing.T) {
	component, view := listView()
	view.Blueprint = true

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: NewDevelopmentStrategy(nil, nil),
	})

	_, err := p.Compose(context.Background(), component, view, Request{URL: "/widget/list/"})
	require.Error(t, err)
	assert.True(t, weavererr.IsConfiguration(err))
}

func TestPipeline_DevelopmentBlueprintTransformApplied(t *testing.T) {
	component, view := listView()
	view.Blueprint = true

	transform := func(markup string) (string, error) {
		return markup + "<!--hot-reload-->", nil
	}

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: NewDevelopmentStrategy(nil, transform),
	})

	res, err := p.Compose(context.Background(), component, view, Request{URL: "/widget/list/"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(res.Body), "<!--hot-reload-->"))
}

func TestPipeline_TemplateOverride(t *testing.T) {
	component, view := listView()
	view.Factories = append(view.Factories, Factory{
		Name:     "variant",
		Priority: 1,
		Fn: func(_ context.Context, c *Context) error {
			c.OverrideTemplate("<p>override</p>")
			return nil
		},
	})

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: NewProductionStrategy(cache.New()),
	})

	res, err := p.Compose(context.Background(), component, view, Request{URL: "/widget/list/"})
	require.NoError(t, err)
	assert.Contains(t, string(res.Body), "<p>override</p>")
}

func TestPipeline_RequiredParamMissing(t *testing.T) {
	component, view := listView()
	view.Params = ParamSchema{
		"page": {Source: "query", Type: "int", Required: true},
	}

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: NewProductionStrategy(cache.New()),
	})

	_, err := p.Compose(context.Background(), component, view, Request{URL: "/widget/list/"})
	require.Error(t, err)
	assert.True(t, weavererr.IsValidation(err))

	res, err := p.Compose(context.Background(), component, view, Request{
		URL:    "/widget/list/?page=2",
		Params: map[string]string{"page": "2"},
	})
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestPipeline_ViewCacheTTLOverride(t *testing.T) {
	component, view := listView()
	view.CacheTTL = 15 * time.Millisecond
	store := cache.New()

	p := NewPipeline(PipelineOptions{
		Engines:  testEngines(),
		Strategy: NewProductionStrategy(store),
	})

	req := Request{URL: "/widget/list/"}
	_, err := p.Compose(context.Background(), component, view, req)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	res, err := p.Compose(context.Background(), component, view, req)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
}
