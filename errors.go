package coroutine

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by [Scheduler.New] after [Scheduler.Close] has been
// called. It is the only failure a caller is expected to handle; every other
// misuse of the scheduler is a programming error, and panics.
var ErrClosed = errors.New(`coroutine: scheduler closed`)

// PanicError wraps a panic value recovered from a coroutine function. The
// death sequence for the coroutine completes before the panic is rethrown to
// the [Scheduler.Resume] caller, so the scheduler remains usable afterwards.
//
// PanicError supports [errors.Is] and [errors.As] matching through the cause
// chain, via Unwrap.
type PanicError struct {
	// Value is the value the coroutine function panicked with.
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf(`coroutine: panic in coroutine function: %v`, e.Value)
}

// Unwrap returns the underlying error if the panic value is an error type.
// If the panic Value is not an error (e.g., a string or other type), returns
// nil.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
