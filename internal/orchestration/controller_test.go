package orchestration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/geoloc"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// mockBackend is a hand-rolled Backend recording every call for assertions.
type mockBackend struct {
	mu sync.Mutex

	catalog    planning.Catalog
	catalogErr error
	weather    *planning.WeatherSnapshot
	weatherErr error
	result     *planning.SimulationResult
	simErr     error

	catalogCalls int
	weatherCalls int
	simCalls     int
	lastRequest  planning.SimulationRequest

	// When set, Simulate blocks until the channel closes.
	simGate chan struct{}
}

func (m *mockBackend) FetchCrops(context.Context) (planning.Catalog, error) {
	m.mu.Lock()
	m.catalogCalls++
	m.mu.Unlock()
	return m.catalog, m.catalogErr
}

func (m *mockBackend) FetchWeather(context.Context, planning.Location) (*planning.WeatherSnapshot, error) {
	m.mu.Lock()
	m.weatherCalls++
	m.mu.Unlock()
	return m.weather, m.weatherErr
}

func (m *mockBackend) Simulate(_ context.Context, req planning.SimulationRequest) (*planning.SimulationResult, error) {
	m.mu.Lock()
	m.simCalls++
	m.lastRequest = req
	gate := m.simGate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return m.result, m.simErr
}

func (m *mockBackend) calls() (catalog, weather, sim int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalogCalls, m.weatherCalls, m.simCalls
}

func validResult() *planning.SimulationResult {
	return &planning.SimulationResult{
		SuccessProbability: 0.74,
		ExpectedYield:      3100,
		RiskLevel:          "Medium",
		Explanation:        "moderate rainfall variance",
	}
}

// newTestController returns a controller wired to the given mock and an
// already configured endpoint.
func newTestController(t *testing.T, backend *mockBackend, opts ...ControllerOption) *Controller {
	t.Helper()
	factory := func(string) (Backend, error) { return backend, nil }
	c := NewController(factory, opts...)
	if err := c.SetEndpoint("http://localhost:5000"); err != nil {
		t.Fatalf("SetEndpoint() error = %v", err)
	}
	return c
}

func TestSetEndpoint(t *testing.T) {
	backend := &mockBackend{catalog: planning.Catalog{{ID: "1", Name: "Wheat"}}}
	c := newTestController(t, backend)

	if err := c.SetEndpoint("   "); err == nil {
		t.Error("SetEndpoint accepted a blank endpoint")
	}

	// Reconfiguring the endpoint invalidates the cached catalog.
	if err := c.FetchCatalog(context.Background()); err != nil {
		t.Fatalf("FetchCatalog() error = %v", err)
	}
	if err := c.SetEndpoint("http://other:5000"); err != nil {
		t.Fatalf("SetEndpoint() error = %v", err)
	}
	if c.Snapshot().Catalog != nil {
		t.Error("catalog survived an endpoint change")
	}
}

func TestSetEndpoint_FactoryFailure(t *testing.T) {
	factory := func(string) (Backend, error) {
		return nil, apperrors.NewConfigError("bad endpoint")
	}
	c := NewController(factory)
	if err := c.SetEndpoint("http://x"); err == nil {
		t.Fatal("SetEndpoint swallowed the factory error")
	}
	if c.Snapshot().Endpoint != "" {
		t.Error("endpoint recorded despite factory failure")
	}
}

func TestSelectCrop(t *testing.T) {
	backend := &mockBackend{catalog: planning.Catalog{
		{ID: "1", Name: "Wheat", Category: "cereal"},
		{ID: "2", Name: "Soybean", Category: "legume"},
	}}
	c := newTestController(t, backend)

	// Before the catalog arrives any non-empty key is taken at face value.
	if err := c.SelectCrop("maize"); err != nil {
		t.Fatalf("SelectCrop() before catalog error = %v", err)
	}

	if err := c.FetchCatalog(context.Background()); err != nil {
		t.Fatalf("FetchCatalog() error = %v", err)
	}

	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "by id", key: "2", want: "Soybean"},
		{name: "by name case-insensitive", key: "wheat", want: "Wheat"},
		{name: "unknown crop", key: "rice", wantErr: true},
		{name: "blank key", key: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.SelectCrop(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SelectCrop(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if !tt.wantErr {
				snap := c.Snapshot()
				if snap.Crop == nil || snap.Crop.Name != tt.want {
					t.Errorf("selected crop = %+v, want %q", snap.Crop, tt.want)
				}
			}
		})
	}
}

func TestRequestLocation(t *testing.T) {
	backend := &mockBackend{}
	c := newTestController(t, backend,
		WithLocator(geoloc.StaticProvider{Lat: 46.8, Lon: -71.2}))

	if err := c.RequestLocation(context.Background()); err != nil {
		t.Fatalf("RequestLocation() error = %v", err)
	}
	snap := c.Snapshot()
	if snap.State != StateLocationReady {
		t.Errorf("state = %s, want %s", snap.State, StateLocationReady)
	}
	if !snap.Location.Valid() || *snap.Location.Lat != 46.8 {
		t.Errorf("location = %+v, want 46.8/-71.2", snap.Location)
	}
}

func TestRequestLocation_Denied(t *testing.T) {
	backend := &mockBackend{}
	c := newTestController(t, backend,
		WithLocator(geoloc.DeniedProvider{Reason: "permission denied"}))

	err := c.RequestLocation(context.Background())
	if err == nil {
		t.Fatal("RequestLocation() succeeded with a denying provider")
	}
	var denied apperrors.LocationDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("error type = %T, want LocationDeniedError", err)
	}
	snap := c.Snapshot()
	if snap.State != StateLocationFailed {
		t.Errorf("state = %s, want %s", snap.State, StateLocationFailed)
	}
	if snap.Err == nil || snap.Err.Op != apperrors.OpLocation {
		t.Errorf("error slot = %+v, want a location error", snap.Err)
	}
}

func TestSetManualLocation(t *testing.T) {
	backend := &mockBackend{}
	c := newTestController(t, backend,
		WithLocator(geoloc.DeniedProvider{Reason: "no provider"}))

	// A denial followed by manual entry recovers the workflow and clears
	// the stale location error.
	_ = c.RequestLocation(context.Background())
	if err := c.SetManualLocation(45.5, -73.6); err != nil {
		t.Fatalf("SetManualLocation() error = %v", err)
	}
	snap := c.Snapshot()
	if snap.State != StateLocationReady {
		t.Errorf("state = %s, want %s", snap.State, StateLocationReady)
	}
	if snap.Err != nil {
		t.Errorf("error slot = %+v, want nil after recovery", snap.Err)
	}

	// Invalid coordinates leave the held location untouched.
	if err := c.SetManualLocation(95, 0); err == nil {
		t.Fatal("SetManualLocation() accepted lat=95")
	}
	snap = c.Snapshot()
	if !snap.Location.Valid() || *snap.Location.Lat != 45.5 {
		t.Errorf("location = %+v, want the previous valid pair", snap.Location)
	}
	if snap.Err == nil || snap.Err.Op != apperrors.OpLocation {
		t.Errorf("error slot = %+v, want a location error", snap.Err)
	}
}

func TestFetchWeather_NoOpWithoutLocation(t *testing.T) {
	backend := &mockBackend{weather: &planning.WeatherSnapshot{Temp: 18}}
	c := newTestController(t, backend)

	if err := c.FetchWeather(context.Background()); err != nil {
		t.Fatalf("FetchWeather() error = %v", err)
	}
	if _, weatherCalls, _ := backend.calls(); weatherCalls != 0 {
		t.Errorf("weather calls = %d, want 0 without a location", weatherCalls)
	}
	if snap := c.Snapshot(); snap.State != StateIdle || snap.Err != nil {
		t.Errorf("snapshot changed by guarded call: state=%s err=%+v", snap.State, snap.Err)
	}
}

func TestFetchWeather(t *testing.T) {
	backend := &mockBackend{weather: &planning.WeatherSnapshot{Temp: 21.5, Humidity: 60}}
	c := newTestController(t, backend,
		WithLocator(geoloc.StaticProvider{Lat: 45.5, Lon: -73.6}))
	if err := c.RequestLocation(context.Background()); err != nil {
		t.Fatalf("RequestLocation() error = %v", err)
	}

	if err := c.FetchWeather(context.Background()); err != nil {
		t.Fatalf("FetchWeather() error = %v", err)
	}
	snap := c.Snapshot()
	if snap.State != StateWeatherReady {
		t.Errorf("state = %s, want %s", snap.State, StateWeatherReady)
	}
	if snap.Weather == nil || snap.Weather.Temp != 21.5 {
		t.Errorf("weather = %+v, want the fetched snapshot", snap.Weather)
	}
}

func TestFetchWeather_FailureIsNonFatal(t *testing.T) {
	backend := &mockBackend{
		weatherErr: apperrors.RequestError{Op: apperrors.OpWeather, Cause: errors.New("503")},
		result:     validResult(),
	}
	c := newTestController(t, backend,
		WithLocator(geoloc.StaticProvider{Lat: 45.5, Lon: -73.6}))
	if err := c.RequestLocation(context.Background()); err != nil {
		t.Fatalf("RequestLocation() error = %v", err)
	}
	if err := c.SelectCrop("wheat"); err != nil {
		t.Fatalf("SelectCrop() error = %v", err)
	}

	if err := c.FetchWeather(context.Background()); err == nil {
		t.Fatal("FetchWeather() swallowed the backend error")
	}
	snap := c.Snapshot()
	if snap.State != StateWeatherFailed {
		t.Errorf("state = %s, want %s", snap.State, StateWeatherFailed)
	}

	// The simulation still runs, with a null weather payload.
	if err := c.RunSimulation(context.Background()); err != nil {
		t.Fatalf("RunSimulation() after weather failure error = %v", err)
	}
	backend.mu.Lock()
	weather := backend.lastRequest.Weather
	backend.mu.Unlock()
	if weather != nil {
		t.Errorf("request weather = %+v, want nil after a failed fetch", weather)
	}
	if snap := c.Snapshot(); snap.State != StateSimulationComplete {
		t.Errorf("state = %s, want %s", snap.State, StateSimulationComplete)
	}
}

func TestFetchCatalog_Cached(t *testing.T) {
	backend := &mockBackend{catalog: planning.Catalog{{ID: "1", Name: "Wheat"}}}
	c := newTestController(t, backend)

	for i := 0; i < 3; i++ {
		if err := c.FetchCatalog(context.Background()); err != nil {
			t.Fatalf("FetchCatalog() #%d error = %v", i+1, err)
		}
	}
	if catalogCalls, _, _ := backend.calls(); catalogCalls != 1 {
		t.Errorf("catalog calls = %d, want 1 (cached)", catalogCalls)
	}
}

func TestFetchCatalog_WithoutBackend(t *testing.T) {
	c := NewController(func(string) (Backend, error) { return &mockBackend{}, nil })
	if err := c.FetchCatalog(context.Background()); err == nil {
		t.Fatal("FetchCatalog() succeeded without an endpoint")
	}
	if snap := c.Snapshot(); snap.Err == nil || snap.Err.Op != apperrors.OpCatalog {
		t.Errorf("error slot = %+v, want a catalog error", snap.Err)
	}
}

func TestRunSimulation_Preconditions(t *testing.T) {
	backend := &mockBackend{result: validResult()}
	c := newTestController(t, backend)

	// Neither crop nor location is set: no request may leave the client.
	err := c.RunSimulation(context.Background())
	if err == nil {
		t.Fatal("RunSimulation() succeeded without inputs")
	}
	var pre apperrors.PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("error type = %T, want PreconditionError", err)
	}
	if _, _, simCalls := backend.calls(); simCalls != 0 {
		t.Errorf("simulate calls = %d, want 0 on precondition failure", simCalls)
	}
	snap := c.Snapshot()
	if snap.State != StateInputError {
		t.Errorf("state = %s, want %s", snap.State, StateInputError)
	}
	if snap.Err == nil || snap.Err.Op != apperrors.OpSimulation {
		t.Errorf("error slot = %+v, want a simulation error", snap.Err)
	}
}

func TestRunSimulation(t *testing.T) {
	result := validResult()
	result.IsOverride = true
	result.YieldRange = &planning.YieldRange{Min: 800, Avg: 3100, Max: 4900}
	backend := &mockBackend{
		weather: &planning.WeatherSnapshot{Temp: 19, Humidity: 55, Rainfall: 2.4, Wind: 11},
		result:  result,
	}
	c := newTestController(t, backend,
		WithLocator(geoloc.StaticProvider{Lat: 45.5, Lon: -73.6}))

	if err := c.RequestLocation(context.Background()); err != nil {
		t.Fatalf("RequestLocation() error = %v", err)
	}
	if err := c.SelectCrop("wheat"); err != nil {
		t.Fatalf("SelectCrop() error = %v", err)
	}
	if err := c.SelectTerrain("valley"); err != nil {
		t.Fatalf("SelectTerrain() error = %v", err)
	}
	if err := c.FetchWeather(context.Background()); err != nil {
		t.Fatalf("FetchWeather() error = %v", err)
	}
	if err := c.RunSimulation(context.Background()); err != nil {
		t.Fatalf("RunSimulation() error = %v", err)
	}

	backend.mu.Lock()
	req := backend.lastRequest
	backend.mu.Unlock()
	if req.Crop != "wheat" {
		t.Errorf("request crop = %q, want %q", req.Crop, "wheat")
	}
	if req.Terrain != "valley" {
		t.Errorf("request terrain = %q, want %q", req.Terrain, "valley")
	}
	if !req.Location.Valid() || *req.Location.Lat != 45.5 {
		t.Errorf("request location = %+v, want 45.5/-73.6", req.Location)
	}
	if req.Weather == nil || req.Weather.Temp != 19 {
		t.Errorf("request weather = %+v, want the fetched snapshot", req.Weather)
	}

	snap := c.Snapshot()
	if snap.State != StateSimulationComplete {
		t.Errorf("state = %s, want %s", snap.State, StateSimulationComplete)
	}
	if snap.Result == nil || !snap.Result.IsOverride {
		t.Errorf("result = %+v, want the override payload", snap.Result)
	}
}

func TestRunSimulation_SupersedesPreviousResult(t *testing.T) {
	backend := &mockBackend{result: validResult()}
	c := newTestController(t, backend,
		WithLocator(geoloc.StaticProvider{Lat: 10, Lon: 10}))
	_ = c.RequestLocation(context.Background())
	_ = c.SelectCrop("wheat")

	if err := c.RunSimulation(context.Background()); err != nil {
		t.Fatalf("RunSimulation() #1 error = %v", err)
	}

	second := validResult()
	second.SuccessProbability = 0.12
	second.RiskLevel = "High"
	second.YieldRange = &planning.YieldRange{Min: 100, Avg: 400, Max: 900}
	backend.mu.Lock()
	backend.result = second
	backend.mu.Unlock()

	if err := c.RunSimulation(context.Background()); err != nil {
		t.Fatalf("RunSimulation() #2 error = %v", err)
	}
	snap := c.Snapshot()
	if snap.Result.SuccessProbability != 0.12 || snap.Result.RiskLevel != "High" {
		t.Errorf("result = %+v, want the second run to replace the first", snap.Result)
	}
}

func TestRunSimulation_ContractViolation(t *testing.T) {
	backend := &mockBackend{result: &planning.SimulationResult{
		SuccessProbability: 1.7,
		ExpectedYield:      3000,
		RiskLevel:          "Low",
	}}
	c := newTestController(t, backend,
		WithLocator(geoloc.StaticProvider{Lat: 10, Lon: 10}))
	_ = c.RequestLocation(context.Background())
	_ = c.SelectCrop("wheat")

	err := c.RunSimulation(context.Background())
	if err == nil {
		t.Fatal("RunSimulation() accepted a contract-violating payload")
	}
	var cErr apperrors.ContractError
	if !errors.As(err, &cErr) {
		t.Fatalf("error type = %T, want ContractError", err)
	}
	snap := c.Snapshot()
	if snap.State != StateSimulationFailed {
		t.Errorf("state = %s, want %s", snap.State, StateSimulationFailed)
	}
	if snap.Result != nil {
		t.Errorf("result = %+v, want nil: invalid payloads must never render", snap.Result)
	}
}

func TestRunSimulation_AtMostOneInFlight(t *testing.T) {
	gate := make(chan struct{})
	backend := &mockBackend{result: validResult(), simGate: gate}
	c := newTestController(t, backend,
		WithLocator(geoloc.StaticProvider{Lat: 10, Lon: 10}))
	_ = c.RequestLocation(context.Background())
	_ = c.SelectCrop("wheat")

	done := make(chan error, 1)
	go func() { done <- c.RunSimulation(context.Background()) }()

	// Wait until the first request reaches the backend.
	deadline := time.After(2 * time.Second)
	for {
		if _, _, simCalls := backend.calls(); simCalls == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first simulation never reached the backend")
		case <-time.After(time.Millisecond):
		}
	}

	// The second submission is rejected without a second request and
	// without disturbing the running state.
	err := c.RunSimulation(context.Background())
	var pre apperrors.PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("concurrent RunSimulation() error = %v, want PreconditionError", err)
	}
	if _, _, simCalls := backend.calls(); simCalls != 1 {
		t.Errorf("simulate calls = %d, want 1", simCalls)
	}
	if snap := c.Snapshot(); snap.State != StateSimulationRunning || snap.Err != nil {
		t.Errorf("snapshot disturbed by rejected call: state=%s err=%+v", snap.State, snap.Err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first RunSimulation() error = %v", err)
	}
	if snap := c.Snapshot(); snap.State != StateSimulationComplete {
		t.Errorf("state = %s, want %s", snap.State, StateSimulationComplete)
	}
}

func TestErrorSlot_ClearedOnlyByOwnOperation(t *testing.T) {
	backend := &mockBackend{
		weatherErr: errors.New("weather down"),
		result:     validResult(),
	}
	c := newTestController(t, backend,
		WithLocator(geoloc.StaticProvider{Lat: 10, Lon: 10}))
	_ = c.RequestLocation(context.Background())
	_ = c.SelectCrop("wheat")

	// Record a weather failure, then run an unrelated operation: the
	// weather error stays visible until weather itself is retried.
	_ = c.FetchWeather(context.Background())
	if snap := c.Snapshot(); snap.Err == nil || snap.Err.Op != apperrors.OpWeather {
		t.Fatalf("error slot = %+v, want a weather error", snap.Err)
	}

	if err := c.RunSimulation(context.Background()); err != nil {
		t.Fatalf("RunSimulation() error = %v", err)
	}
	if snap := c.Snapshot(); snap.Err == nil || snap.Err.Op != apperrors.OpWeather {
		t.Errorf("error slot = %+v, want the weather error preserved", snap.Err)
	}

	backend.mu.Lock()
	backend.weatherErr = nil
	backend.weather = &planning.WeatherSnapshot{Temp: 20}
	backend.mu.Unlock()
	if err := c.FetchWeather(context.Background()); err != nil {
		t.Fatalf("FetchWeather() retry error = %v", err)
	}
	if snap := c.Snapshot(); snap.Err != nil {
		t.Errorf("error slot = %+v, want nil after a successful retry", snap.Err)
	}
}

func TestWorkflowStateString(t *testing.T) {
	states := []WorkflowState{
		StateIdle, StateLocationPending, StateLocationReady, StateLocationFailed,
		StateWeatherFetching, StateWeatherReady, StateWeatherFailed,
		StateSimulationRunning, StateSimulationComplete, StateSimulationFailed,
		StateInputError,
	}
	seen := make(map[string]bool)
	for _, s := range states {
		name := s.String()
		if name == "" || name == "Unknown" {
			t.Errorf("state %d renders as %q", s, name)
		}
		if seen[name] {
			t.Errorf("duplicate state name %q", name)
		}
		seen[name] = true
	}
	if WorkflowState(99).String() != "Unknown" {
		t.Errorf("out-of-range state = %q, want Unknown", WorkflowState(99).String())
	}
}
