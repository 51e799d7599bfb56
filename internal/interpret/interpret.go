// Package interpret maps raw simulation results to presentation-ready
// derived fields: risk banding, formatted probability and yield figures, and
// panel visibility. Everything here is a pure function with no I/O.
package interpret

import (
	"fmt"
	"math"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// RiskBand is a display tier derived from the backend risk level.
type RiskBand string

// The display tiers. BandUnknown covers any backend value outside the closed
// {Low, Medium, High} set: the interpreter fails open rather than crashing or
// silently defaulting to Low.
const (
	BandLow     RiskBand = "Low"
	BandMedium  RiskBand = "Medium"
	BandHigh    RiskBand = "High"
	BandUnknown RiskBand = "Unknown"
)

// Band maps a backend risk level to its display tier.
func Band(riskLevel string) RiskBand {
	switch riskLevel {
	case "Low":
		return BandLow
	case "Medium":
		return BandMedium
	case "High":
		return BandHigh
	}
	return BandUnknown
}

// FormatProbability renders a success probability as a percentage rounded to
// one decimal place ("83.7%"). A value outside [0,1] is a backend contract
// violation and is surfaced as an error rather than clamped.
func FormatProbability(p float64) (string, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return "", apperrors.NewContractError("success_probability", "value %v outside [0, 1]", p)
	}
	return fmt.Sprintf("%.1f%%", p*100), nil
}

// FormatYield renders an expected yield rounded to zero decimal places.
func FormatYield(y float64) string {
	return fmt.Sprintf("%.0f", y)
}

// FormatYieldRange renders a "min – avg – max" band.
func FormatYieldRange(yr planning.YieldRange) string {
	return fmt.Sprintf("%s – %s – %s", FormatYield(yr.Min), FormatYield(yr.Avg), FormatYield(yr.Max))
}

// ShowOverrideBanner reports whether the agronomic-override banner is
// visible. Visibility is exactly the is_override flag, independent of any
// yield numbers.
func ShowOverrideBanner(r planning.SimulationResult) bool {
	return r.IsOverride
}

// ShowYieldRange reports whether the yield-range panel is visible.
// Visibility is exactly the presence of the yield_range field.
func ShowYieldRange(r planning.SimulationResult) bool {
	return r.YieldRange != nil
}

// View is the full set of presentation derivatives for one result.
type View struct {
	Probability string
	Yield       string
	Risk        RiskBand
	Explanation string
	Override    bool
	YieldRange  string
	HasRange    bool
}

// Interpret derives the complete presentation view from a result. It returns
// an error when the result violates the formatting contract, so callers
// never render partial figures.
func Interpret(r planning.SimulationResult) (View, error) {
	probability, err := FormatProbability(r.SuccessProbability)
	if err != nil {
		return View{}, err
	}

	v := View{
		Probability: probability,
		Yield:       FormatYield(r.ExpectedYield),
		Risk:        Band(r.RiskLevel),
		Explanation: r.Explanation,
		Override:    ShowOverrideBanner(r),
		HasRange:    ShowYieldRange(r),
	}
	if v.HasRange {
		v.YieldRange = FormatYieldRange(*r.YieldRange)
	}
	return v, nil
}
