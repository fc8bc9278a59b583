package renderer

import (
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndRender(t *testing.T) {
	reg := NewRegistry()
	reg.Register(TechnologyHTML, NewHTMLEngine())

	out, err := reg.Render(context.Background(), TechnologyHTML,
		"<p>{{.greeting}}</p>", map[string]any{"greeting": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", out)
}

func TestRegistry_UnknownTechnology(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Render(context.Background(), "react", "x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no engine registered")
}

func TestHTMLEngine_EscapesData(t *testing.T) {
	engine := NewHTMLEngine()

	out, err := engine.Render(context.Background(),
		"<span>{{.v}}</span>", map[string]any{"v": "<script>"})
	require.NoError(t, err)
	assert.Equal(t, "<span>&lt;script&gt;</span>", out)
}

func TestHTMLEngine_ParseError(t *testing.T) {
	engine := NewHTMLEngine()

	_, err := engine.Render(context.Background(), "{{.broken", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing template")
}

func TestHTMLEngine_MemoizesParsedTemplates(t *testing.T) {
	engine := NewHTMLEngine()
	tmpl := "<b>{{.n}}</b>"

	_, err := engine.Render(context.Background(), tmpl, map[string]any{"n": 1})
	require.NoError(t, err)
	_, err = engine.Render(context.Background(), tmpl, map[string]any{"n": 2})
	require.NoError(t, err)

	assert.Len(t, engine.parsed, 1)
}

func TestTemplEngine_RendersRegisteredComponent(t *testing.T) {
	engine := NewTemplEngine()
	engine.RegisterComponent("Badge", func(data map[string]any) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "<span class=\"badge\">"+data["label"].(string)+"</span>")
			return err
		})
	})

	out, err := engine.Render(context.Background(), "Badge", map[string]any{"label": "new"})
	require.NoError(t, err)
	assert.Equal(t, `<span class="badge">new</span>`, out)
}

func TestTemplEngine_UnregisteredComponent(t *testing.T) {
	engine := NewTemplEngine()

	_, err := engine.Render(context.Background(), "Missing", nil)
	require.Error(t, err)
}

func TestSampleData(t *testing.T) {
	sample := SampleData(map[string]string{
		"title": "string",
		"count": "int",
		"tags":  "[]string",
		"force": "bool",
		"blob":  "custom",
	})

	assert.Equal(t, "Sample Title", sample["title"])
	assert.Equal(t, 42, sample["count"])
	assert.Equal(t, []string{"Item 1", "Item 2", "Item 3"}, sample["tags"])
	assert.Equal(t, true, sample["force"])
	assert.Equal(t, "sample_blob", sample["blob"])
}
