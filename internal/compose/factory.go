package compose

import (
	"context"
	"sort"
)

// orderFactories returns a new slice sorted by ascending priority with
// declaration order preserved for equal priorities. The caller's slice
// is never mutated.
func orderFactories(factories []Factory) []Factory {
	ordered := make([]Factory, len(factories))
	copy(ordered, factories)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}

// runEnrichment executes the three scope groups sequentially in the
// fixed order global, component, view. Every step of a group completes
// before the next group starts; a step error aborts the run.
func runEnrichment(ctx context.Context, c *Context, global, component, view []Factory) error {
	for _, group := range [][]Factory{global, component, view} {
		for _, factory := range orderFactories(group) {
			if err := factory.Fn(ctx, c); err != nil {
				return err
			}
		}
	}
	return nil
}
