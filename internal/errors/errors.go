// Package errors defines the error kinds surfaced by weaver subsystems.
//
// Only two kinds exist: ValidationError for malformed input handed to the
// bus, and ConfigurationError for fatal setup problems discovered at
// request time. Everything else (cache misses, empty queue reads) is
// ordinary control flow and never becomes an error.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError reports input that fails a structural precondition,
// such as publishing a message without a channel or topic. It propagates
// synchronously to the caller and never aborts the process.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation: %s", e.Message)
}

// NewValidation creates a ValidationError for the given field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConfigurationError reports a setup problem that makes a request
// impossible to serve, such as a development-mode blueprint render with
// no hot-reload transform wired in. It is fatal for the request.
type ConfigurationError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %s: %v", e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Component, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfiguration creates a ConfigurationError scoped to a component.
func NewConfiguration(component, message string) *ConfigurationError {
	return &ConfigurationError{Component: component, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
