package apperrors

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/agbru/mpcalc/internal/mpfr"
)

// Application exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // Any error without a more specific code.
	ExitErrorTimeout  = 2   // The run exceeded its timeout.
	ExitErrorMismatch = 3   // Two kernels disagreed on a result.
	ExitErrorConfig   = 4   // Invalid flags, environment or config file.
	ExitErrorRange    = 5   // A result left the exponent range under the report policy.
	ExitErrorCanceled = 130 // Interrupted (SIGINT).
)

// ConfigError is a user configuration error, such as an invalid flag value.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError wraps a failed arithmetic operation with the operation
// and operands that caused it.
type CalculationError struct {
	// Op is the operation name ("add", "sub", "mul").
	Op string
	// Operands holds the textual operands as given by the user.
	Operands []string
	// Cause is the underlying error.
	Cause error
}

func (e CalculationError) Error() string {
	if e.Op == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s %s: %v", e.Op, strings.Join(e.Operands, " "), e.Cause)
}

// Unwrap returns the cause.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports that an operation exceeded its time limit.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError is an input validation failure on a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// MismatchError reports kernels that produced different results for the
// same job.
type MismatchError struct {
	// Job describes the operation, e.g. "mul 1.5 3 RNDN p53".
	Job string
	// Results maps kernel names to their rendered result.
	Results map[string]string
}

func (e MismatchError) Error() string {
	parts := make([]string, 0, len(e.Results))
	for name, r := range e.Results {
		parts = append(parts, name+"="+r)
	}
	slices.Sort(parts)
	return fmt.Sprintf("kernels disagree on %s: %s", e.Job, strings.Join(parts, ", "))
}

// WrapError wraps err with a formatted context message. It returns nil if
// err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a context cancellation or deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	var (
		cfgErr      ConfigError
		valErr      ValidationError
		timeoutErr  TimeoutError
		mismatchErr MismatchError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.Is(err, mpfr.ErrRangeExceeded):
		return ExitErrorRange
	case errors.Is(err, mpfr.ErrInvalidPrecision), errors.Is(err, mpfr.ErrUnknownKernel):
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}
