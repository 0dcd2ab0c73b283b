// Package apperrors holds the error types shared by the command-line and
// server front ends of fibdrv, and the mapping from errors to process exit
// codes.
//
// Every wrapping type implements Unwrap so that errors.Is and errors.As see
// through it to the sentinel errors of the bignum and fibdrv packages.
package apperrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/fibdrv"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful run.
	ExitErrorGeneric  = 1   // Unclassified failure.
	ExitErrorTimeout  = 2   // The run hit its deadline.
	ExitErrorMismatch = 3   // Engines disagreed on a result.
	ExitErrorConfig   = 4   // Invalid flags, environment or config file.
	ExitErrorResource = 5   // A limb or digit buffer could not be allocated.
	ExitErrorBusy     = 6   // The device was held by another session.
	ExitErrorCanceled = 130 // Interrupted, e.g. by SIGINT.
)

// ConfigError reports invalid user configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments for the format string.
//
// Returns:
//   - error: The ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError wraps a failure of an engine or a strategy.
type CalculationError struct {
	// Cause is the engine error.
	Cause error
	// Engine names the engine or strategy that failed, if known.
	Engine string
}

func (e CalculationError) Error() string {
	if e.Engine != "" {
		return fmt.Sprintf("%s: %v", e.Engine, e.Cause)
	}
	return e.Cause.Error()
}

// Unwrap returns the engine error.
func (e CalculationError) Unwrap() error { return e.Cause }

// ServerError reports a failure of the HTTP server.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the cause, which may be nil.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a ServerError. cause may be nil.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError prefixes err with a formatted message, keeping it unwrappable.
// A nil err yields nil.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the prefix.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsResourceError reports whether err comes from a failed allocation.
func IsResourceError(err error) bool {
	return errors.Is(err, bignum.ErrAllocation)
}

// IsBusyError reports whether err comes from a device already in use.
func IsBusyError(err error) bool {
	return errors.Is(err, fibdrv.ErrBusy)
}

// ValidationError reports an invalid request parameter or config value.
type ValidationError struct {
	Field   string
	Message string
	// Value is the rejected value, if any.
	Value any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// ExitCode returns the exit code for err.
func ExitCode(err error) int {
	var cfgErr ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case IsResourceError(err):
		return ExitErrorResource
	case IsBusyError(err):
		return ExitErrorBusy
	default:
		return ExitErrorGeneric
	}
}
