package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the whole core. Repositories and services wrap these
// with context via fmt.Errorf("...: %w", ...); callers classify with
// errors.Is or the helpers below.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on state-machine violations: a second pending
	// submission for the same key, approving a non-pending submission,
	// completing a non-pending order.
	ErrConflict = errors.New("conflict")

	// ErrForbidden is returned when tenant isolation or role policy rejects
	// the action.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned on invalid input: negative quantity, unknown
	// unit, missing rejection reason, empty item list.
	ErrValidation = errors.New("validation failed")

	// ErrIntegrity is returned when a database constraint violation surfaces
	// as a core error.
	ErrIntegrity = errors.New("integrity violation")

	// ErrTimeout is returned when the ambient deadline expired; no partial
	// state escapes.
	ErrTimeout = errors.New("timeout")

	// ErrInternal is an unexpected failure, logged with context and surfaced
	// opaquely to callers.
	ErrInternal = errors.New("internal error")
)

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool  { return errors.Is(err, ErrConflict) }
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// NotFoundError carries the entity kind and identifier.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ForbiddenError carries enough detail to log a cross-tenant or role denial
// without leaking it to the caller.
type ForbiddenError struct {
	UserID    int64
	Action    string
	CompanyID int64
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("user %d is not allowed to %s on company %d", e.UserID, e.Action, e.CompanyID)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
