package fault

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the simulator packages
var (
	// ErrConfiguration marks invalid fault rates, models or other run settings
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidInput marks a caller contract violation such as an empty multiplexer group
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternalInvariant marks a defect in the implementation itself
	ErrInternalInvariant = errors.New("internal invariant violated")
)

// Error provides structured error information for simulator operations.
type Error struct {
	Op      string // Operation that failed (e.g., "NewRateTable", "mux.New")
	Context string // Additional context
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches this error's cause.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Err, target)
}

// ErrorBuilder provides a fluent interface for building Errors.
type ErrorBuilder struct {
	err Error
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: Error{Op: op}}
}

// Context sets additional context.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	if len(args) == 0 {
		b.err.Context = format
	} else {
		b.err.Context = fmt.Sprintf(format, args...)
	}
	return b
}

// Cause sets the underlying error.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Err = err
	return b
}

// Build returns the constructed error.
func (b *ErrorBuilder) Build() *Error {
	e := b.err
	return &e
}

// IsConfiguration reports whether err is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsInvalidInput reports whether err is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInternalInvariant reports whether err is an internal invariant violation
func IsInternalInvariant(err error) bool {
	return errors.Is(err, ErrInternalInvariant)
}
