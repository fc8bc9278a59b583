package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidation("topic", "must not be empty")
	assert.Equal(t, "validation: topic: must not be empty", err.Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsConfiguration(err))

	bare := &ValidationError{Message: "event must have channel and topic"}
	assert.Equal(t, "validation: event must have channel and topic", bare.Error())
}

func TestConfigurationError(t *testing.T) {
	err := NewConfiguration("widget", "no transform wired")
	assert.Equal(t, "configuration: widget: no transform wired", err.Error())
	assert.True(t, IsConfiguration(err))
	assert.False(t, IsValidation(err))
}

func TestConfigurationError_Unwrap(t *testing.T) {
	cause := stderrors.New("read failed")
	err := &ConfigurationError{Component: "widget", Message: "template unavailable", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "read failed")
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("composing widget/list: %w", NewValidation("id", "required"))
	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsValidation(stderrors.New("plain")))
	assert.False(t, IsValidation(nil))
}
