package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError rejects an operation because a required value is missing.
// No state is mutated when it is returned.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports a reference to a record that does not exist, usually
// from a stale UI.
type NotFoundError struct {
	Kind string
	ID   string
}

func NewNotFoundError(kind string, id fmt.Stringer) error {
	return &NotFoundError{Kind: kind, ID: id.String()}
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", err.Kind, err.ID)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// Fields returns the field errors carried by err, if any.
func Fields(err error) []FieldError {
	var target *ValidationError
	if errors.As(err, &target) {
		return target.Fields
	}
	return nil
}
