// ABOUTME: Validation error type shared by all model constructors
// ABOUTME: Carries the offending field and reason for actionable CLI messages
package models

import "fmt"

// ValidationError reports a structurally invalid field on a model.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
