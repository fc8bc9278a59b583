package compose

import (
	"encoding/json"
	"fmt"
)

// HydrationIDPrefix prefixes the element id of every embedded
// hydration payload. The client bootstrap derives the id from the
// wrapper's data-target attribute, reads the JSON once, and removes
// the element from the document.
const HydrationIDPrefix = "weaver-hydration-"

// HydrationID returns the element id of the hydration payload for the
// given context id.
func HydrationID(contextID string) string {
	return HydrationIDPrefix + contextID
}

// Hydration serializes the sanitized context into an embeddable script
// element adjacent to the rendered markup.
func Hydration(c *Context) (string, error) {
	payload, err := json.Marshal(c.Sanitized())
	if err != nil {
		return "", fmt.Errorf("serializing hydration payload: %w", err)
	}
	return fmt.Sprintf(`<script type="application/json" id="%s">%s</script>`,
		HydrationID(c.ID), payload), nil
}
