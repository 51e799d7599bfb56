// Package planning defines the domain types of the agricultural planning
// workflow: locations, crops, terrain classes, weather snapshots, and the
// simulation result contract shared with the backend engine.
package planning

import (
	"math"
	"strings"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
)

// Location is a geographic coordinate pair. Both fields are pointers so that
// "not yet resolved" is distinguishable from zero coordinates; the pair is
// never partially trusted and must pass Valid() before any downstream use.
type Location struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// NewLocation builds a fully resolved Location from concrete coordinates.
func NewLocation(lat, lon float64) Location {
	return Location{Lat: &lat, Lon: &lon}
}

// Valid reports whether both coordinates are set, finite, and within the
// WGS 84 bounds ([-90,90] latitude, [-180,180] longitude).
func (l Location) Valid() bool {
	return l.Validate() == nil
}

// Validate checks the coordinate pair and returns a LocationInvalidError
// naming the first offending field, or nil when the pair is usable.
func (l Location) Validate() error {
	if l.Lat == nil {
		return apperrors.LocationInvalidError{Field: "lat", Message: "latitude is not set"}
	}
	if l.Lon == nil {
		return apperrors.LocationInvalidError{Field: "lon", Message: "longitude is not set"}
	}
	if math.IsNaN(*l.Lat) || math.IsInf(*l.Lat, 0) {
		return apperrors.LocationInvalidError{Field: "lat", Message: "latitude is not a finite number"}
	}
	if math.IsNaN(*l.Lon) || math.IsInf(*l.Lon, 0) {
		return apperrors.LocationInvalidError{Field: "lon", Message: "longitude is not a finite number"}
	}
	if *l.Lat < -90 || *l.Lat > 90 {
		return apperrors.LocationInvalidError{Field: "lat", Message: "latitude must be within [-90, 90]"}
	}
	if *l.Lon < -180 || *l.Lon > 180 {
		return apperrors.LocationInvalidError{Field: "lon", Message: "longitude must be within [-180, 180]"}
	}
	return nil
}

// Crop describes one entry of the backend crop catalog. Crops are immutable
// once fetched.
type Crop struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Catalog is the set of crops available for simulation, fetched once per
// endpoint configuration and shared read-only for the session.
type Catalog []Crop

// Find returns the crop matching the given id or name (case-insensitive on
// name) and whether it was found.
func (c Catalog) Find(key string) (Crop, bool) {
	for _, crop := range c {
		if crop.ID == key || strings.EqualFold(crop.Name, key) {
			return crop, true
		}
	}
	return Crop{}, false
}

// Names returns the crop names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, crop := range c {
		names[i] = crop.Name
	}
	return names
}

// Terrain is a closed-set classification of planting site topography
// affecting the simulation outcome.
type Terrain string

// The closed set of terrain classes accepted by the simulation engine.
const (
	TerrainPlain    Terrain = "plain"
	TerrainPlateau  Terrain = "plateau"
	TerrainMountain Terrain = "mountain"
	TerrainValley   Terrain = "valley"
	TerrainCoastal  Terrain = "coastal"
)

// Terrains lists all valid terrain classes in display order.
var Terrains = []Terrain{TerrainPlain, TerrainPlateau, TerrainMountain, TerrainValley, TerrainCoastal}

// ParseTerrain converts a user-supplied string to a Terrain. Anything outside
// the closed set is rejected; the empty string yields the default (plain).
func ParseTerrain(s string) (Terrain, error) {
	if s == "" {
		return TerrainPlain, nil
	}
	t := Terrain(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Terrains {
		if t == known {
			return t, nil
		}
	}
	return "", apperrors.NewConfigError("unknown terrain %q (valid: plain, plateau, mountain, valley, coastal)", s)
}

// WeatherSnapshot captures current environmental conditions at a location.
// It is an optional simulation input: a nil snapshot is a valid, if degraded,
// request.
type WeatherSnapshot struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Rainfall float64 `json:"rainfall"`
	Wind     float64 `json:"wind"`
}

// YieldRange is the worst/average/best-case output band from the underlying
// stochastic simulation, expressed in mass per unit area.
type YieldRange struct {
	Min float64 `json:"min"`
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
}

// SimulationResult is the structured outcome of one simulation run. Each run
// supersedes the previous result entirely; results are never merged.
type SimulationResult struct {
	SuccessProbability float64     `json:"success_probability"`
	ExpectedYield      float64     `json:"expected_yield"`
	RiskLevel          string      `json:"risk_level"`
	Explanation        string      `json:"explanation"`
	IsOverride         bool        `json:"is_override"`
	YieldRange         *YieldRange `json:"yield_range,omitempty"`
}

// Validate checks the result against the backend contract: probability within
// [0,1], non-negative yield, and an ordered yield range when present. A
// violation means the payload must not reach the presentation layer.
func (r SimulationResult) Validate() error {
	if math.IsNaN(r.SuccessProbability) || r.SuccessProbability < 0 || r.SuccessProbability > 1 {
		return apperrors.NewContractError("success_probability", "value %v outside [0, 1]", r.SuccessProbability)
	}
	if math.IsNaN(r.ExpectedYield) || r.ExpectedYield < 0 {
		return apperrors.NewContractError("expected_yield", "value %v is negative", r.ExpectedYield)
	}
	if yr := r.YieldRange; yr != nil {
		if yr.Min > yr.Avg || yr.Avg > yr.Max {
			return apperrors.NewContractError("yield_range", "ordering violated: min=%v avg=%v max=%v", yr.Min, yr.Avg, yr.Max)
		}
	}
	return nil
}

// SimulationRequest is the JSON body submitted to the simulation engine.
// Weather is serialized as null when no snapshot is available.
type SimulationRequest struct {
	Crop     string           `json:"crop"`
	Location Location         `json:"location"`
	Terrain  string           `json:"terrain"`
	Weather  *WeatherSnapshot `json:"weather"`
}
