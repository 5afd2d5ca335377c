package repository

import (
	"errors"
	"fmt"
)

// Standard errors returned by the repositories.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUserExists is returned when trying to create a user that already exists.
	ErrUserExists = fmt.Errorf("user already exists: %w", ErrConflict)
)

// TransitionError explains a rejected research request status change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move from %q to %q", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
