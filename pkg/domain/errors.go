package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidOperand is returned when a request operand is blank or not a finite number.
var ErrInvalidOperand = errors.New("invalid operand")

// ErrUnknownFamily is returned when no algorithm family is registered under a tag.
var ErrUnknownFamily = errors.New("unknown algorithm family")

// ErrUnsupportedOperation is returned when a family does not implement an operation kind.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// ErrOperationInProgress is returned when a new operation is requested while the
// previous trace on the same structure has not been committed or aborted.
var ErrOperationInProgress = errors.New("operation in progress")

// ErrNoPendingOperation is returned when committing or aborting with nothing pending.
var ErrNoPendingOperation = errors.New("no pending operation")

// InputError describes a request rejected at the boundary, before any trace exists.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets callers match every input rejection with errors.Is(err, ErrInvalidOperand).
func (e *InputError) Unwrap() error {
	return ErrInvalidOperand
}

// ErrSnapshotMismatch is returned when a generator receives a snapshot of the wrong shape.
var ErrSnapshotMismatch = errors.New("snapshot kind mismatch")

// ErrInconsistentCommit is returned when the committed structure disagrees with
// the terminal step of the trace that was shown.
var ErrInconsistentCommit = errors.New("committed structure disagrees with trace")
