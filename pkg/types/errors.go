package types

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrEmptyID      = errors.New("id cannot be empty")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyQuery   = errors.New("query cannot be empty")
	ErrInvalidLimit = errors.New("limit must be positive")
)

// Collaborator errors
var (
	// ErrUnavailable matches any UnavailableError.
	ErrUnavailable = errors.New("collaborator unavailable")

	// ErrMalformedData matches any MalformedDataError.
	ErrMalformedData = errors.New("malformed upstream data")
)

// UnavailableError reports that a graph store, vector store or model service
// could not be reached.
type UnavailableError struct {
	Service string
	Op      string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s unavailable during %s: %v", e.Service, e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support for UnavailableError.
func (e *UnavailableError) Is(target error) bool {
	if target == ErrUnavailable {
		return true
	}
	_, ok := target.(*UnavailableError)
	return ok
}

// NewUnavailableError creates a new UnavailableError.
func NewUnavailableError(service, op string, err error) *UnavailableError {
	return &UnavailableError{Service: service, Op: op, Err: err}
}

// MalformedDataError reports a store response that is missing an expected
// field or carries a value of the wrong type.
type MalformedDataError struct {
	Source string
	Field  string
	Detail string
}

func (e *MalformedDataError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("malformed %s response: field %q", e.Source, e.Field)
	}
	return fmt.Sprintf("malformed %s response: field %q: %s", e.Source, e.Field, e.Detail)
}

// Is implements errors.Is support for MalformedDataError.
func (e *MalformedDataError) Is(target error) bool {
	if target == ErrMalformedData {
		return true
	}
	_, ok := target.(*MalformedDataError)
	return ok
}

// NewMalformedDataError creates a new MalformedDataError.
func NewMalformedDataError(source, field, detail string) *MalformedDataError {
	return &MalformedDataError{Source: source, Field: field, Detail: detail}
}
