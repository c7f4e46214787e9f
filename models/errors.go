package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a task rejected before it reached storage.
type ValidationError struct {
	Field string
	Rule  string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("Validation failed on field '%s': %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("Validation failed on field '%s': rule '%s'", e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports an update or delete on an unknown task id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with ID '%s' not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ParseError reports a stored date value that is not a calendar day.
// The classification engine treats it as "does not match" and never propagates it.
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("parse day %q: %s", e.Value, e.Reason)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a missing-task failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
