package app

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning indicates Run was called twice.
var ErrAlreadyRunning = errors.New("daemon already running")

// Action errors.
var (
	// ErrUnknownAction indicates an action string matched no registered kind.
	ErrUnknownAction = errors.New("unknown action")

	// ErrEmptyAction indicates an empty action string.
	ErrEmptyAction = errors.New("empty action")
)

// OperationError wraps an error with operation context.
type OperationError struct {
	// Op is the operation that failed.
	Op string
	// Target is what the operation was acting on.
	Target string
	// Err is the underlying error.
	Err error
}

// Error returns the error message.
func (e *OperationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}
