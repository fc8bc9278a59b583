package compose

import (
	"fmt"
	"html"
	"strings"
)

// Encapsulation attribute names carried by the wrapper element so the
// client bootstrap can locate each embedded fragment unambiguously.
const (
	AttrServerURL = "data-server-url"
	AttrID        = "data-id"
	AttrComponent = "data-component"
	AttrView      = "data-view"
	AttrNestLevel = "data-nest-level"
	AttrTarget    = "data-target"
)

// WrapperConfig controls the encapsulating container element emitted
// around non-blueprint renders.
type WrapperConfig struct {
	// Tag is the container element, "div" when empty.
	Tag string
	// Classes are added to the wrapper's class attribute.
	Classes []string
}

// DefaultWrapper is used when no wrapper configuration is supplied.
var DefaultWrapper = WrapperConfig{
	Tag:     "div",
	Classes: []string{"weaver-component"},
}

// Encapsulate wraps rendered markup in the identifying container
// element. Blueprints are never wrapped; callers check the view's
// Blueprint flag first.
func Encapsulate(cfg WrapperConfig, c *Context, markup string) string {
	tag := cfg.Tag
	if tag == "" {
		tag = "div"
	}

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	if len(cfg.Classes) > 0 {
		fmt.Fprintf(&b, ` class="%s"`, html.EscapeString(strings.Join(cfg.Classes, " ")))
	}
	fmt.Fprintf(&b, ` %s="%s"`, AttrServerURL, html.EscapeString(c.ServerURL))
	fmt.Fprintf(&b, ` %s="%s"`, AttrID, html.EscapeString(c.ID))
	fmt.Fprintf(&b, ` %s="%s"`, AttrComponent, html.EscapeString(c.Component))
	fmt.Fprintf(&b, ` %s="%s"`, AttrView, html.EscapeString(c.View))
	fmt.Fprintf(&b, ` %s="%d"`, AttrNestLevel, c.NestLevel)
	fmt.Fprintf(&b, ` %s="#%s"`, AttrTarget, HydrationID(c.ID))
	b.WriteString(">")
	b.WriteString(markup)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
	return b.String()
}
