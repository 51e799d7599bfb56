package orchestration

import (
	"context"

	"github.com/Krish00711/TerraSim/internal/planning"
)

// CatalogFetcher retrieves the list of available crops from the backend.
// This interface decouples the controller from the HTTP adapter, following
// the same separation used between the orchestration and presentation
// layers: business sequencing must not depend on transport concerns.
type CatalogFetcher interface {
	// FetchCrops issues one catalog request and returns the parsed set.
	FetchCrops(ctx context.Context) (planning.Catalog, error)
}

// WeatherFetcher retrieves current environmental conditions for a location.
type WeatherFetcher interface {
	// FetchWeather issues one weather request for the given location.
	FetchWeather(ctx context.Context, loc planning.Location) (*planning.WeatherSnapshot, error)
}

// SimulationRunner submits a simulation request to the backend engine.
type SimulationRunner interface {
	// Simulate issues exactly one simulation request and returns the parsed
	// result. The result is not yet validated against the contract.
	Simulate(ctx context.Context, req planning.SimulationRequest) (*planning.SimulationResult, error)
}

// Backend groups the three adapter contracts behind one endpoint. The
// api.Client satisfies this interface.
type Backend interface {
	CatalogFetcher
	WeatherFetcher
	SimulationRunner
}

// BackendFactory builds a Backend for a user-supplied endpoint string. The
// controller calls it on every endpoint reconfiguration; injection keeps the
// controller testable without network access.
type BackendFactory func(endpoint string) (Backend, error)

// Snapshot is the read-only view of the workflow exposed to presentation
// surfaces. All fields are copies; mutating a snapshot never affects the
// controller.
type Snapshot struct {
	// State is the current workflow state.
	State WorkflowState
	// Endpoint is the configured backend endpoint ("" when unset).
	Endpoint string
	// Location is the current coordinate pair (possibly unresolved).
	Location planning.Location
	// Crop is the selected crop, nil when none is selected.
	Crop *planning.Crop
	// Terrain is the selected terrain class.
	Terrain planning.Terrain
	// Weather is the fetched snapshot, nil when absent or failed.
	Weather *planning.WeatherSnapshot
	// Result is the latest validated simulation result, nil before the
	// first successful run.
	Result *planning.SimulationResult
	// Catalog is the cached crop catalog, nil before the first fetch.
	Catalog planning.Catalog
	// Err is the current error slot, nil when no error is visible.
	Err *WorkflowError
}
