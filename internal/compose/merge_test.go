package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeParams_RightBiased(t *testing.T) {
	global := ParamSchema{
		"locale": {Source: "header", Type: "string"},
		"page":   {Source: "query", Type: "int"},
	}
	component := ParamSchema{
		"page": {Source: "query", Type: "int", Required: true},
		"sort": {Source: "query", Type: "string"},
	}
	view := ParamSchema{
		"sort": {Source: "query", Type: "string", Required: true},
	}

	merged := MergeParams(global, component, view)

	assert.Len(t, merged, 3)
	// Untouched global key survives.
	assert.Equal(t, "header", merged["locale"].Source)
	// Component overrides global.
	assert.True(t, merged["page"].Required)
	// View overrides component.
	assert.True(t, merged["sort"].Required)
}

func TestMergeParams_InputsNotMutated(t *testing.T) {
	global := ParamSchema{"a": {Type: "string"}}
	view := ParamSchema{"a": {Type: "int"}}

	MergeParams(global, nil, view)

	assert.Equal(t, "string", global["a"].Type)
	assert.Equal(t, "int", view["a"].Type)
}

func TestMergeParams_AllEmpty(t *testing.T) {
	merged := MergeParams(nil, nil, nil)
	assert.NotNil(t, merged)
	assert.Len(t, merged, 0)
}
