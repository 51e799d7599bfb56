package orchestration

import apperrors "github.com/Krish00711/TerraSim/internal/errors"

// WorkflowState is the client-owned representation of progress through the
// location → weather → simulation steps. It lives only for the session and
// is never persisted.
type WorkflowState int

// The workflow states. Weather is a soft dependency: the machine may move
// from LocationReady straight to SimulationRunning without touching the
// weather states.
const (
	// StateIdle is the initial state before any location attempt.
	StateIdle WorkflowState = iota
	// StateLocationPending means a geolocation request is outstanding.
	StateLocationPending
	// StateLocationReady means a valid coordinate pair is held.
	StateLocationReady
	// StateLocationFailed means the capability denied or failed the attempt;
	// manual coordinate entry re-enters StateLocationReady.
	StateLocationFailed
	// StateWeatherFetching means a weather request is outstanding.
	StateWeatherFetching
	// StateWeatherReady means a weather snapshot is held.
	StateWeatherReady
	// StateWeatherFailed means the weather fetch failed. This branch is
	// recoverable and non-fatal: simulation may proceed without a snapshot.
	StateWeatherFailed
	// StateSimulationRunning means exactly one simulation request is in
	// flight; inputs are treated as busy by the presentation layer.
	StateSimulationRunning
	// StateSimulationComplete means a validated result is held.
	StateSimulationComplete
	// StateSimulationFailed means the submission or its payload failed.
	StateSimulationFailed
	// StateInputError means a precondition check rejected the last intent
	// before any network call was made.
	StateInputError
)

// String returns the state name for logs and status displays.
func (s WorkflowState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLocationPending:
		return "LocationPending"
	case StateLocationReady:
		return "LocationReady"
	case StateLocationFailed:
		return "LocationFailed"
	case StateWeatherFetching:
		return "WeatherFetching"
	case StateWeatherReady:
		return "WeatherReady"
	case StateWeatherFailed:
		return "WeatherFailed"
	case StateSimulationRunning:
		return "SimulationRunning"
	case StateSimulationComplete:
		return "SimulationComplete"
	case StateSimulationFailed:
		return "SimulationFailed"
	case StateInputError:
		return "InputError"
	}
	return "Unknown"
}

// Busy reports whether an asynchronous operation is outstanding; the
// presentation layer disables inputs while true.
func (s WorkflowState) Busy() bool {
	return s == StateLocationPending || s == StateWeatherFetching || s == StateSimulationRunning
}

// WorkflowError is the single "current error" slot of the controller: one
// human-readable failure tied to the operation that produced it. It is not a
// queue; each new failure supersedes the previous one, and starting a new
// operation clears the slot.
type WorkflowError struct {
	// Op is the workflow operation that produced the error.
	Op apperrors.Operation
	// Err is the underlying typed error.
	Err error
}

// Error returns the human-readable message.
func (e WorkflowError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying typed error for errors.As inspection.
func (e WorkflowError) Unwrap() error { return e.Err }
