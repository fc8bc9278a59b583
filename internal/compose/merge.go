package compose

// MergeParams merges parameter schema fragments from the three
// configuration scopes. On key collision the more specific scope wins:
// view over component over global. Inputs are never mutated.
func MergeParams(global, component, view ParamSchema) ParamSchema {
	merged := make(ParamSchema, len(global)+len(component)+len(view))
	for _, schema := range []ParamSchema{global, component, view} {
		for name, param := range schema {
			merged[name] = param
		}
	}
	return merged
}
