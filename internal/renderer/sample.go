package renderer

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// SampleData generates plausible example values for the named
// parameters, keyed by common naming conventions. Used by the manifest
// route to show callers what a view's data context looks like.
func SampleData(params map[string]string) map[string]any {
	sample := make(map[string]any, len(params))
	for name, typ := range params {
		switch typ {
		case "string":
			sample[name] = sampleString(name)
		case "int", "number":
			sample[name] = 42
		case "bool":
			sample[name] = true
		case "[]string", "list":
			sample[name] = []string{"Item 1", "Item 2", "Item 3"}
		default:
			sample[name] = fmt.Sprintf("sample_%s", name)
		}
	}
	return sample
}

func sampleString(name string) string {
	switch strings.ToLower(name) {
	case "title", "heading":
		return "Sample Title"
	case "name", "username":
		return "John Doe"
	case "email":
		return "john@example.com"
	case "message", "content", "text":
		return "This is sample content for the view preview."
	case "url", "link", "href":
		return "https://example.com"
	case "variant", "type", "kind":
		return "primary"
	case "color":
		return "blue"
	case "size":
		return "medium"
	default:
		return fmt.Sprintf("Sample %s", titleCaser.String(name))
	}
}
