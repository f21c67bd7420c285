package coros

import (
	"errors"
	"fmt"
)

// ErrResultNotReady is returned by Result.Get when called before the
// owning task has completed.
var ErrResultNotReady = errors.New("coros: result not ready")

// PanicError wraps a task body's recovered panic value together with the
// stack captured at the moment it panicked, analogous to the original
// runtime's unhandled_exception-captured exception pointer.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("coros: task panicked: %v", e.Value)
}

// Unwrap returns the recovered value if it is itself an error, enabling
// errors.Is/errors.As to see through to the original cause.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ErrPoolShutdown is returned (wrapped in a Result's error) for any task
// still queued, but not yet run, at the time its pool is shut down.
var ErrPoolShutdown = errors.New("coros: pool shut down with work still queued")
