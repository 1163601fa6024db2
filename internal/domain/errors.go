package domain

import "fmt"

// ValidationError reports a field or cross-field constraint violated during
// model construction. It is always raised synchronously: a model that fails
// validation never becomes visible to callers.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// invalidf builds a ValidationError for the named field.
func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
