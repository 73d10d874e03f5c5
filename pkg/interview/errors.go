package interview

import (
	"errors"
	"fmt"
)

// Kind enumerates the interview package's error kinds.
type Kind string

const (
	KindNotFound               Kind = "not_found"
	KindInvalidTransition      Kind = "invalid_transition"
	KindAlreadyAnswered        Kind = "already_answered"
	KindValidationError        Kind = "validation_error"
	KindCollaboratorUnavailable Kind = "collaborator_unavailable"
	KindSessionClosed          Kind = "session_closed"
	KindInternalError          Kind = "internal_error"
)

var (
	ErrNotFound               = errors.New("interview not found")
	ErrInvalidTransition      = errors.New("operation illegal for current phase")
	ErrAlreadyAnswered        = errors.New("question already answered")
	ErrValidationError        = errors.New("validation failed")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrSessionClosed          = errors.New("session closed")
	ErrInternalError          = errors.New("internal error")
)

func sentinelFor(k Kind) error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindInvalidTransition:
		return ErrInvalidTransition
	case KindAlreadyAnswered:
		return ErrAlreadyAnswered
	case KindValidationError:
		return ErrValidationError
	case KindCollaboratorUnavailable:
		return ErrCollaboratorUnavailable
	case KindSessionClosed:
		return ErrSessionClosed
	default:
		return ErrInternalError
	}
}

// Error wraps a Kind with the operation that raised it and an optional cause.
type Error struct {
	Kind      Kind
	Operation string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("interview: %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("interview: %s: %s", e.Operation, sentinelFor(e.Kind))
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return sentinelFor(e.Kind)
}

// NewError builds an *Error of the given kind, attributing it to op with an
// optional underlying cause. Exported so orchestrating packages (pkg/agent)
// can raise the same error kinds the core itself uses.
func NewError(k Kind, op string, cause error) *Error {
	return &Error{Kind: k, Operation: op, Cause: cause}
}

// Is reports whether err carries the given Kind.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return errors.Is(err, sentinelFor(k))
}
