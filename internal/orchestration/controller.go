package orchestration

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/geoloc"
	"github.com/Krish00711/TerraSim/internal/logging"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// Controller owns the workflow state machine. It is safe for concurrent use:
// presentation surfaces may invoke intents from event-loop goroutines while
// another operation is in flight. Network calls run outside the internal
// lock; only state transitions are serialized.
type Controller struct {
	mu sync.Mutex

	newBackend BackendFactory
	locator    geoloc.Provider
	log        logging.Logger

	backend  Backend
	endpoint string

	state    WorkflowState
	location planning.Location
	crop     *planning.Crop
	terrain  planning.Terrain
	weather  *planning.WeatherSnapshot
	result   *planning.SimulationResult
	catalog  planning.Catalog
	curErr   *WorkflowError

	// simInFlight enforces at-most-one outstanding simulation. It is
	// distinct from the state field because a failed run leaves the state
	// machine in SimulationFailed while no request is outstanding.
	simInFlight bool
}

// ControllerOption configures a Controller during construction.
type ControllerOption func(*Controller)

// WithLocator sets the geolocation capability used by RequestLocation.
func WithLocator(p geoloc.Provider) ControllerOption {
	return func(c *Controller) { c.locator = p }
}

// WithLogger sets the structured logger for transition logging.
func WithLogger(log logging.Logger) ControllerOption {
	return func(c *Controller) { c.log = log }
}

// NewController creates a Controller in the Idle state with the default
// terrain. The backend factory is called on every SetEndpoint; no backend
// exists until an endpoint is configured.
func NewController(factory BackendFactory, opts ...ControllerOption) *Controller {
	c := &Controller{
		newBackend: factory,
		locator:    geoloc.DeniedProvider{Reason: "no geolocation capability configured"},
		log:        logging.NopLogger{},
		state:      StateIdle,
		terrain:    planning.TerrainPlain,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current workflow view for presentation.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:    c.state,
		Endpoint: c.endpoint,
		Location: c.location,
		Crop:     c.crop,
		Terrain:  c.terrain,
		Weather:  c.weather,
		Result:   c.result,
		Catalog:  c.catalog,
		Err:      c.curErr,
	}
}

// SetEndpoint reconfigures the backend endpoint. The endpoint is opaque;
// only non-emptiness is checked. Reconfiguration clears the cached catalog
// (the one lifecycle event that does) while leaving the rest of the workflow
// untouched.
func (c *Controller) SetEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return apperrors.NewConfigError("backend endpoint cannot be empty")
	}

	backend, err := c.newBackend(endpoint)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.backend = backend
	c.endpoint = endpoint
	c.catalog = nil
	c.log.Info("endpoint configured", logging.String("endpoint", endpoint))
	return nil
}

// SelectCrop records the crop choice. When the catalog has been fetched the
// key must resolve to a catalog entry (by id or name); before any fetch a
// free-form crop name is accepted so the workflow stays usable when the
// catalog endpoint is down.
func (c *Controller) SelectCrop(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return apperrors.NewConfigError("crop cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.catalog) > 0 {
		crop, ok := c.catalog.Find(key)
		if !ok {
			return apperrors.NewConfigError("crop %q is not in the catalog", key)
		}
		c.crop = &crop
		return nil
	}
	c.crop = &planning.Crop{Name: key}
	return nil
}

// SelectTerrain records the terrain choice after closed-set validation.
func (c *Controller) SelectTerrain(name string) error {
	terrain, err := planning.ParseTerrain(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.terrain = terrain
	return nil
}

// RequestLocation asks the geolocation capability for the current
// coordinates. The attempt moves the machine to LocationPending; exactly one
// outcome follows: LocationReady with the coordinates set, or LocationFailed
// carrying the capability's human-readable reason. From LocationFailed,
// manual entry re-enters LocationReady.
func (c *Controller) RequestLocation(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateLocationPending
	c.clearError(apperrors.OpLocation)
	locator := c.locator
	c.mu.Unlock()

	loc, err := locator.Locate(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateLocationFailed
		c.setError(apperrors.OpLocation, err)
		c.log.Warn("location request failed", logging.Err(err))
		return err
	}

	c.location = loc
	c.state = StateLocationReady
	c.log.Info("location resolved",
		logging.Float64("lat", *loc.Lat),
		logging.Float64("lon", *loc.Lon))
	return nil
}

// SetManualLocation enters coordinates by hand. Valid coordinates re-enter
// LocationReady regardless of the previous state; out-of-range values set a
// LocationInvalid error and leave the held location untouched.
func (c *Controller) SetManualLocation(lat, lon float64) error {
	loc := planning.NewLocation(lat, lon)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := loc.Validate(); err != nil {
		c.setError(apperrors.OpLocation, err)
		return err
	}

	c.location = loc
	c.state = StateLocationReady
	c.clearError(apperrors.OpLocation)
	return nil
}

// FetchWeather retrieves the current conditions for the held location. The
// call is guarded: with an invalid location it is a strict no-op — no state
// change, no error slot change, no request. A fetch failure moves the
// machine to WeatherFailed but never blocks simulation; the controller
// simply proceeds with a nil snapshot if the user simulates anyway.
func (c *Controller) FetchWeather(ctx context.Context) error {
	c.mu.Lock()
	if !c.location.Valid() || c.backend == nil {
		c.mu.Unlock()
		return nil
	}
	c.state = StateWeatherFetching
	c.clearError(apperrors.OpWeather)
	backend := c.backend
	loc := c.location
	c.mu.Unlock()

	snapshot, err := backend.FetchWeather(ctx, loc)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateWeatherFailed
		c.weather = nil
		c.setError(apperrors.OpWeather, err)
		c.log.Warn("weather fetch failed", logging.Err(err))
		return err
	}

	c.weather = snapshot
	c.state = StateWeatherReady
	return nil
}

// FetchCatalog retrieves the crop catalog. The catalog is fetched once per
// endpoint configuration and cached; subsequent calls return without a
// request. Failure sets a catalog-specific error without affecting the
// location/weather/simulation workflow state.
func (c *Controller) FetchCatalog(ctx context.Context) error {
	c.mu.Lock()
	if c.backend == nil {
		err := apperrors.NewConfigError("backend endpoint not configured")
		c.setError(apperrors.OpCatalog, err)
		c.mu.Unlock()
		return err
	}
	if c.catalog != nil {
		c.mu.Unlock()
		return nil
	}
	c.clearError(apperrors.OpCatalog)
	backend := c.backend
	c.mu.Unlock()

	catalog, err := backend.FetchCrops(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.setError(apperrors.OpCatalog, err)
		c.log.Warn("catalog fetch failed", logging.Err(err))
		return err
	}

	c.catalog = catalog
	c.log.Info("catalog fetched", logging.Int("crops", len(catalog)))
	return nil
}

// RunSimulation submits one simulation request. Entry is double-guarded:
//
//   - Preconditions: a crop must be selected and the location valid.
//     A violation moves the machine to InputError with an explicit message
//     and performs no network call.
//   - At-most-one-in-flight: a second call while a request is outstanding is
//     rejected without a second request and without touching the state.
//
// On response the machine moves to SimulationComplete with the validated
// result, or to SimulationFailed carrying the underlying cause. A payload
// violating the result contract counts as a failure and is never rendered.
func (c *Controller) RunSimulation(ctx context.Context) error {
	c.mu.Lock()
	if c.simInFlight {
		c.mu.Unlock()
		return apperrors.PreconditionError{Op: apperrors.OpSimulation, Message: "a simulation is already running"}
	}
	if err := c.checkSimulationPreconditions(); err != nil {
		c.state = StateInputError
		c.setError(apperrors.OpSimulation, err)
		c.mu.Unlock()
		return err
	}

	c.state = StateSimulationRunning
	c.simInFlight = true
	c.clearError(apperrors.OpSimulation)
	backend := c.backend
	req := planning.SimulationRequest{
		Crop:     c.crop.Name,
		Location: c.location,
		Terrain:  string(c.terrain),
		Weather:  c.weather,
	}
	c.mu.Unlock()

	result, err := backend.Simulate(ctx, req)
	if err == nil {
		err = result.Validate()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.simInFlight = false
	if err != nil {
		c.state = StateSimulationFailed
		c.setError(apperrors.OpSimulation, err)
		c.log.Warn("simulation failed", logging.Err(err))
		return err
	}

	// Each run supersedes the previous result entirely.
	c.result = result
	c.state = StateSimulationComplete
	c.log.Info("simulation complete",
		logging.Float64("success_probability", result.SuccessProbability),
		logging.String("risk_level", result.RiskLevel),
		logging.Bool("override", result.IsOverride))
	return nil
}

// checkSimulationPreconditions verifies the inputs required before any
// simulation request may be issued. Callers hold the lock.
func (c *Controller) checkSimulationPreconditions() error {
	var missing []string
	if c.crop == nil || c.crop.Name == "" {
		missing = append(missing, "crop selection")
	}
	if !c.location.Valid() {
		missing = append(missing, "valid location")
	}
	if c.backend == nil {
		missing = append(missing, "backend endpoint")
	}
	if len(missing) > 0 {
		return apperrors.PreconditionError{
			Op:      apperrors.OpSimulation,
			Message: "missing " + strings.Join(missing, " and "),
		}
	}
	return nil
}

// setError stores the current error slot. Callers hold the lock.
func (c *Controller) setError(op apperrors.Operation, err error) {
	c.curErr = &WorkflowError{Op: op, Err: err}
}

// clearError clears the slot when the named operation begins. An error left
// by a different operation stays visible until its own operation restarts;
// errors are superseded by new actions, never expired proactively.
func (c *Controller) clearError(op apperrors.Operation) {
	if c.curErr != nil && c.curErr.Op == op {
		c.curErr = nil
	}
}
