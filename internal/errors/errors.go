package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the one-shot
// pipeline mode. These codes are used to signal the outcome of the program
// execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorConfig   = 2   // Indicates a configuration error.
	ExitErrorLocation = 3   // Indicates the location could not be resolved.
	ExitErrorCatalog  = 4   // Indicates the crop catalog could not be fetched.
	ExitErrorRequest  = 5   // Indicates the simulation request failed.
	ExitErrorContract = 6   // Indicates the backend returned an invalid payload.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Operation identifies the workflow step that produced an error. The
// controller keeps a single current error tagged with its operation so that
// starting a new operation clears only its own stale error.
type Operation string

// Workflow operations that can carry an error.
const (
	OpLocation   Operation = "location"
	OpCatalog    Operation = "catalog"
	OpWeather    Operation = "weather"
	OpSimulation Operation = "simulation"
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// LocationDeniedError indicates the geolocation capability refused or failed
// to yield coordinates. It carries the capability's human-readable reason so
// the presentation layer can explain why manual entry is needed.
type LocationDeniedError struct {
	// Reason is the denial reason reported by the capability.
	Reason string
}

// Error returns a formatted message describing the denial.
func (e LocationDeniedError) Error() string {
	return fmt.Sprintf("location access denied: %s", e.Reason)
}

// LocationInvalidError indicates manually entered coordinates are
// non-numeric, non-finite, or out of range.
type LocationInvalidError struct {
	// Field is the coordinate field that failed validation ("lat" or "lon").
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e LocationInvalidError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PreconditionError indicates a workflow operation was invoked before its
// inputs were ready. No network call is made when this error is produced.
type PreconditionError struct {
	// Op is the operation whose precondition failed.
	Op Operation
	// Message lists the missing inputs.
	Message string
}

// Error returns a formatted message describing the failed precondition.
func (e PreconditionError) Error() string {
	return fmt.Sprintf("%s precondition failed: %s", e.Op, e.Message)
}

// RequestError encapsulates a failed backend request (network or decode
// failure) while preserving the original cause. The Op field lets the
// controller map the failure to the workflow step that issued it.
type RequestError struct {
	// Op is the operation that issued the request.
	Op Operation
	// Cause is the underlying transport or decode error.
	Cause error
}

// Error returns a formatted message embedding the underlying cause.
func (e RequestError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e RequestError) Unwrap() error { return e.Cause }

// ContractError indicates the backend returned a payload that violates the
// simulation result contract (probability outside [0,1], negative yield,
// unordered yield range). It is detected before any presentation state is
// updated so malformed figures are never rendered.
type ContractError struct {
	// Field is the name of the violating payload field.
	Field string
	// Message explains the violation.
	Message string
}

// Error returns a formatted message describing the contract violation.
func (e ContractError) Error() string {
	return fmt.Sprintf("backend contract violation in %q: %s", e.Field, e.Message)
}

// NewContractError creates a new ContractError with a formatted message.
func NewContractError(field, format string, a ...any) error {
	return ContractError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error to the process exit code for the one-shot mode.
// Weather failures are deliberately absent: they are non-fatal and never
// terminate the pipeline on their own.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if IsContextError(err) {
		return ExitErrorCanceled
	}

	var (
		configErr   ConfigError
		deniedErr   LocationDeniedError
		invalidErr  LocationInvalidError
		precondErr  PreconditionError
		requestErr  RequestError
		contractErr ContractError
	)
	switch {
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &deniedErr), errors.As(err, &invalidErr):
		return ExitErrorLocation
	case errors.As(err, &contractErr):
		return ExitErrorContract
	case errors.As(err, &precondErr):
		return ExitErrorConfig
	case errors.As(err, &requestErr):
		if requestErr.Op == OpCatalog {
			return ExitErrorCatalog
		}
		return ExitErrorRequest
	}
	return ExitErrorGeneric
}
