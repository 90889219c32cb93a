package models

import (
	"errors"
	"fmt"
	"strings"
)

// Domain specific errors for authentication, validation and generation.
var (
	ErrNotFound         = errors.New("requested item not found")
	ErrConflict         = errors.New("item already exists or conflict")
	ErrUnauthenticated  = errors.New("authentication required or invalid credentials")
	ErrForbidden        = errors.New("action forbidden")
	ErrBadRequest       = errors.New("bad request")
	ErrValidation       = errors.New("validation failed")
	ErrGenerationFailed = errors.New("model returned no parseable itinerary")
	ErrHandoffEmpty     = errors.New("no pending handoff value")
)

// FieldError attributes a validation failure to a single field so the wizard
// can highlight the offending control.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors is the field-addressed error list produced by schema
// validation. It is itself an error and unwraps to ErrValidation.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e FieldErrors) Unwrap() error { return ErrValidation }

// Has reports whether any error in the list is attributed to field.
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns the list as an error, or nil when it is empty.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// PermissionError is the structured authorization failure emitted when the
// document store rejects a write. It carries enough context for the hosting
// environment to fail loudly in development and log quietly in production,
// and is always distinguishable from transient failures.
type PermissionError struct {
	Path      string `json:"path"`
	Operation string `json:"operation"`
	Cause     error  `json:"-"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s on %s", e.Operation, e.Path)
}

func (e *PermissionError) Unwrap() error { return e.Cause }

// IsPermissionError reports whether err is (or wraps) a store authorization
// rejection.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
