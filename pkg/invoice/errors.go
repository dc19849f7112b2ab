// pkg/invoice/errors.go

package invoice

import (
	"errors"
	"fmt"
)

// ErrInvalidItem is matched by every ValidationError and RenderError.
var ErrInvalidItem = errors.New("invalid line item")

// ValidationError is returned when item input cannot be coerced at add time.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func newValidationError(field string, value any, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidItem.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidItem
}

// RenderError identifies a malformed item met while building a document.
// Index is the zero-based position of the item in its list.
type RenderError struct {
	Index       int
	Description string
	Err         error
}

func (e *RenderError) Error() string {
	name := e.Description
	if name == "" {
		name = "<no description>"
	}
	return fmt.Sprintf("item %d (%q): %v", e.Index+1, name, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidItem.
func (e *RenderError) Is(target error) bool {
	return target == ErrInvalidItem
}
