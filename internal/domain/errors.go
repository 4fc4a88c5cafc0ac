package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used to classify DomainError values.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrConflict        = errors.New("conflict")
)

// DomainError wraps a sentinel classification with a human-readable message.
type DomainError struct {
	Err     error
	Message string
}

// Error implements the error interface.
func (e *DomainError) Error() string { return e.Message }

// Unwrap exposes the sentinel for errors.Is checks.
func (e *DomainError) Unwrap() error { return e.Err }

// NewNotFoundError creates a DomainError for a missing resource.
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewInvalidArgumentError creates a DomainError for a rejected input.
func NewInvalidArgumentError(msg string) *DomainError {
	return &DomainError{Err: ErrInvalidArgument, Message: msg}
}

// NewInvalidStateError creates a DomainError for an illegal state transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{Err: ErrInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}
