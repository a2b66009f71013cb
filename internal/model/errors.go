package model

import "fmt"

// LoadError represents failures reading an upstream invoice record
type LoadError struct {
	Schema  string
	Field   string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Schema, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Schema, e.Field, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NewLoadError creates a new load error
func NewLoadError(schema, field, message string, cause error) *LoadError {
	return &LoadError{
		Schema:  schema,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError represents a violated precondition on a bundle
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}
