package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Common sentinel errors for quick checks
var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the server rejects a subscription.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnauthenticated is returned when the connection is not authenticated.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidInput is returned when caller input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClosed is returned when writing to a connection that has gone away.
	ErrClosed = errors.New("connection closed")

	// ErrInternal is returned when an internal error occurs.
	ErrInternal = errors.New("internal error")
)

// Error is the base interface for all custom errors in the system.
// It extends the standard error interface with additional context.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Stack returns the captured stack trace.
func (e *BaseError) Stack() []uintptr {
	return e.stack
}

func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// ValidationError represents an input validation error.
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
			stack:   captureStack(1),
		},
		Field: field,
		Value: value,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// NotFoundError represents a missing resource, such as a send to an
// identity that has no live subscription.
type NotFoundError struct {
	*BaseError
	Resource string
	ID       string
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		BaseError: &BaseError{
			code:    CodeNotFound,
			message: fmt.Sprintf("%s not found", resource),
			stack:   captureStack(1),
		},
		Resource: resource,
		ID:       id,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("no %s for %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// UnauthorizedError represents a rejected or dropped subscription. Its code
// is either CodeUnauthorized or CodeUnauthenticated.
type UnauthorizedError struct {
	*BaseError
	Channel string
}

// NewUnauthorizedError creates an error for a subscription the server rejected.
func NewUnauthorizedError(channel string) *UnauthorizedError {
	return &UnauthorizedError{
		BaseError: &BaseError{
			code:    CodeUnauthorized,
			message: CodeUnauthorized,
			stack:   captureStack(1),
		},
		Channel: channel,
	}
}

// NewUnauthenticatedError creates an error for a subscription whose
// connection went away.
func NewUnauthenticatedError(channel string) *UnauthorizedError {
	return &UnauthorizedError{
		BaseError: &BaseError{
			code:    CodeUnauthenticated,
			message: CodeUnauthenticated,
			stack:   captureStack(1),
		},
		Channel: channel,
	}
}

// Is lets errors.Is match the sentinel that corresponds to the code.
func (e *UnauthorizedError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.code == CodeUnauthorized
	case ErrUnauthenticated:
		return e.code == CodeUnauthenticated
	}
	return false
}

// TransportError represents a failure on the physical connection.
type TransportError struct {
	*BaseError
	Op  string
	URL string
}

// NewTransportError creates a new transport error.
func NewTransportError(op, url string, cause error) *TransportError {
	return &TransportError{
		BaseError: &BaseError{
			code:    CodeTransportError,
			message: fmt.Sprintf("%s failed", op),
			cause:   cause,
			stack:   captureStack(1),
		},
		Op:  op,
		URL: url,
	}
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	msg := e.message
	if e.URL != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.URL)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// ConfigError represents a configuration file that could not be loaded.
type ConfigError struct {
	*BaseError
	Op string
}

// NewConfigError creates a new configuration error.
func NewConfigError(op string, cause error) *ConfigError {
	return &ConfigError{
		BaseError: &BaseError{
			code:    CodeConfigError,
			message: op,
			cause:   cause,
			stack:   captureStack(1),
		},
		Op: op,
	}
}

// InternalError represents an internal error.
type InternalError struct {
	*BaseError
	Operation string
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *InternalError {
	if message == "" {
		message = "internal error"
	}
	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
	}
}

// WithOperation sets the operation context.
func (e *InternalError) WithOperation(op string) *InternalError {
	e.Operation = op
	return e
}

// Wrap wraps an error with additional context.
// If the error is already one of our custom types, it preserves the code
// and adds the cause chain. Otherwise, it creates an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if e, ok := err.(Error); ok {
		return &BaseError{
			code:    e.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   err,
			stack:   captureStack(1),
		},
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// New creates a new error with a message.
func New(message string) error {
	return &BaseError{
		code:    CodeInternal,
		message: message,
		stack:   captureStack(1),
	}
}

// Newf creates a new error with a formatted message.
func Newf(format string, args ...interface{}) error {
	return New(fmt.Sprintf(format, args...))
}
