package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies terminal color codes without importing the cli
// package.
type ColorProvider interface {
	Yellow() string
	Reset() string
}

// DefaultColorProvider returns empty color codes.
type DefaultColorProvider struct{}

func (d DefaultColorProvider) Yellow() string { return "" }
func (d DefaultColorProvider) Reset() string  { return "" }

// HandleCalculationError prints a status line for a failed run and returns
// the exit code. Timeouts, cancellations, allocation failures and a busy
// device each get their own message.
//
// Parameters:
//   - err: The error that occurred.
//   - duration: How long the run lasted before failing; 0 omits it.
//   - out: The destination of the status line.
//   - colors: Color codes, or nil for none.
//
// Returns:
//   - int: The exit code for err.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	msgSuffix := ""
	if duration > 0 {
		msgSuffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", msgSuffix)
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), msgSuffix, colors.Reset())
	case IsResourceError(err):
		fmt.Fprintf(out, "Status: Failure (Out of memory). %v%s.\n", err, msgSuffix)
	case IsBusyError(err):
		fmt.Fprintf(out, "Status: Failure (Busy). The device is in use by another session.\n")
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return ExitCode(err)
}
