package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aryankumar/sweep/internal/experiment"
)

// Common error types for the sweep CLI
var (
	// ErrInvalidConfig indicates a configuration or plan error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrTimeout indicates the experiment hit its wall-clock limit
	ErrTimeout = errors.New("experiment timed out")

	// ErrCancelled indicates the experiment was cancelled before completion
	ErrCancelled = errors.New("experiment cancelled")

	// ErrTasksFailed indicates at least one task failed
	ErrTasksFailed = errors.New("tasks failed")
)

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
		sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors
// It filters out nil errors
func NewMultiError(errs []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errs)),
	}
	for _, err := range errs {
		m.Add(err)
	}
	return m
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsConfigError checks if an error comes from configuration or plan validation
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, experiment.ErrDuplicateTaskID) ||
		errors.Is(err, experiment.ErrInvalidParallelism) ||
		errors.Is(err, experiment.ErrInvalidTask)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsTimeout(err):
		return "Experiment timed out before every task ran. Increase the limit with --timeout."
	case IsCancelled(err):
		return "Experiment was cancelled; tasks that had not started were skipped."
	case errors.Is(err, experiment.ErrDuplicateTaskID):
		return "Two tasks share the same id. Task ids must be unique: " + err.Error()
	case errors.Is(err, experiment.ErrInvalidParallelism):
		return "Parallelism must be at least 1. Check --parallel or the plan's parallel field."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your plan file and command-line flags: " + err.Error()
	default:
		return err.Error()
	}
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errs ...error) error {
	return NewMultiError(errs).ErrorOrNil()
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// ReportError converts an unsuccessful report into an error for the exit
// status, nil when every task succeeded
func ReportError(report *experiment.Report) error {
	if report == nil || report.AllSucceeded() {
		return nil
	}

	counts := report.Counts()
	reason := report.HaltReason()

	switch {
	case counts.Failed > 0:
		return fmt.Errorf("%w: %d of %d tasks failed", ErrTasksFailed, counts.Failed, report.Total())
	case strings.HasPrefix(reason, "timeout"):
		return fmt.Errorf("%w: %d of %d tasks cancelled (%s)", ErrTimeout, counts.Cancelled, report.Total(), reason)
	default:
		return fmt.Errorf("%w: %d of %d tasks cancelled", ErrCancelled, counts.Cancelled, report.Total())
	}
}
