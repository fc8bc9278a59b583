package compose

import (
	"crypto/rand"
	"encoding/hex"
)

// Context is the per-request render state. It is created once per
// request, mutated only by enrichment steps and template overrides,
// and discarded when the response is written.
type Context struct {
	// ID uniquely identifies this render for hydration pickup.
	ID string
	// Component and View name the pair being composed.
	Component string
	View      string
	// Data is populated by enrichment steps and handed to the
	// rendering engine.
	Data map[string]any
	// Params are the request parameters admitted by the merged schema.
	Params map[string]string
	// NestLevel is the depth of this fragment in the composed page.
	NestLevel int
	// Blueprint mirrors the view's blueprint flag for this render.
	Blueprint bool
	// ServerURL is the externally visible base URL of this server.
	ServerURL string

	templateOverride string
}

// NewContext creates the render context for one request.
func NewContext(component, view, serverURL string, params map[string]string, nestLevel int, blueprint bool) *Context {
	if params == nil {
		params = make(map[string]string)
	}
	return &Context{
		ID:        newContextID(),
		Component: component,
		View:      view,
		Data:      make(map[string]any),
		Params:    params,
		NestLevel: nestLevel,
		Blueprint: blueprint,
		ServerURL: serverURL,
	}
}

// OverrideTemplate replaces the template used for this render only.
// Enrichment steps use this to swap variants without touching the view
// definition.
func (c *Context) OverrideTemplate(template string) {
	c.templateOverride = template
}

// TemplateOverride returns the per-request template override, if any.
func (c *Context) TemplateOverride() (string, bool) {
	return c.templateOverride, c.templateOverride != ""
}

// Sanitized returns the subset of the context that is safe to embed in
// the page for the client bootstrap. Internal fields such as the
// template override never leave the server.
func (c *Context) Sanitized() map[string]any {
	return map[string]any{
		"id":        c.ID,
		"component": c.Component,
		"view":      c.View,
		"data":      c.Data,
		"params":    c.Params,
		"nestLevel": c.NestLevel,
		"blueprint": c.Blueprint,
		"serverUrl": c.ServerURL,
	}
}

func newContextID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(b[:])
}
