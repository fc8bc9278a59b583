package renderer

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TechnologyHTML is the registry key for the built-in html/template
// engine.
const TechnologyHTML = "html"

// HTMLEngine renders Go html/template sources. Parsed templates are
// memoized by source text so repeated renders of the same view skip
// re-parsing.
type HTMLEngine struct {
	mu     sync.RWMutex
	parsed map[string]*template.Template
}

// NewHTMLEngine creates an html/template engine.
func NewHTMLEngine() *HTMLEngine {
	return &HTMLEngine{
		parsed: make(map[string]*template.Template),
	}
}

// Render parses tmpl (memoized) and executes it with data.
func (e *HTMLEngine) Render(ctx context.Context, tmpl string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t, err := e.parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

func (e *HTMLEngine) parse(tmpl string) (*template.Template, error) {
	e.mu.RLock()
	t, ok := e.parsed[tmpl]
	e.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := template.New("view").Parse(tmpl)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.parsed[tmpl] = t
	e.mu.Unlock()
	return t, nil
}
