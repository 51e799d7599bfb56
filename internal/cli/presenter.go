package cli

import (
	"fmt"
	"io"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/interpret"
	"github.com/Krish00711/TerraSim/internal/orchestration"
	"github.com/Krish00711/TerraSim/internal/planning"
	"github.com/Krish00711/TerraSim/internal/ui"
)

// Presenter renders workflow snapshots and simulation results for terminal
// output. It holds no state; every method derives its output from the
// snapshot it is given.
type Presenter struct{}

// PresentResult displays the interpreted simulation result panel: success
// probability, expected yield, risk tier with its color, the optional yield
// range, and the override banner when the backend flagged the crop as
// unsuitable for the location.
func (Presenter) PresentResult(result planning.SimulationResult, out io.Writer) error {
	view, err := interpret.Interpret(result)
	if err != nil {
		return err
	}

	theme := ui.GetCurrentTheme()
	riskColor := theme.RiskColor(string(view.Risk))

	fmt.Fprintf(out, "\n%s--- Simulation Result ---%s\n", theme.Bold, theme.Reset)
	if view.Override {
		fmt.Fprintf(out, "%s⚠ Crop unsuitable for this location — penalties applied%s\n",
			theme.Warning, theme.Reset)
	}
	fmt.Fprintf(out, "  Success probability: %s%s%s\n", theme.Primary, view.Probability, theme.Reset)
	fmt.Fprintf(out, "  Expected yield:      %s%s%s\n", theme.Primary, view.Yield, theme.Reset)
	fmt.Fprintf(out, "  Risk level:          %s%s%s\n", riskColor, view.Risk, theme.Reset)
	if view.HasRange {
		fmt.Fprintf(out, "  Yield range:         %s%s%s\n", theme.Secondary, view.YieldRange, theme.Reset)
	}
	if view.Explanation != "" {
		fmt.Fprintf(out, "  %s%s%s\n", theme.Secondary, view.Explanation, theme.Reset)
	}
	fmt.Fprintln(out)
	return nil
}

// PresentCatalog displays the fetched crop catalog grouped as a flat list
// with categories.
func (Presenter) PresentCatalog(catalog planning.Catalog, out io.Writer) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%sAvailable crops:%s\n", theme.Bold, theme.Reset)
	for _, crop := range catalog {
		fmt.Fprintf(out, "  %s%-20s%s %s\n", theme.Warning, crop.Name, theme.Reset, crop.Category)
	}
	fmt.Fprintln(out)
}

// PresentStatus displays the current workflow snapshot: state, endpoint,
// selections, coordinates, and the current error if one is visible.
func (Presenter) PresentStatus(snap orchestration.Snapshot, out io.Writer) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%sWorkflow status:%s\n", theme.Bold, theme.Reset)
	fmt.Fprintf(out, "  State:    %s%s%s\n", theme.Primary, snap.State, theme.Reset)

	endpoint := snap.Endpoint
	if endpoint == "" {
		endpoint = "(not configured)"
	}
	fmt.Fprintf(out, "  Endpoint: %s%s%s\n", theme.Primary, endpoint, theme.Reset)

	crop := "(none)"
	if snap.Crop != nil {
		crop = snap.Crop.Name
	}
	fmt.Fprintf(out, "  Crop:     %s%s%s\n", theme.Primary, crop, theme.Reset)
	fmt.Fprintf(out, "  Terrain:  %s%s%s\n", theme.Primary, snap.Terrain, theme.Reset)

	if snap.Location.Valid() {
		fmt.Fprintf(out, "  Location: %s%.4f, %.4f%s\n", theme.Primary, *snap.Location.Lat, *snap.Location.Lon, theme.Reset)
	} else {
		fmt.Fprintf(out, "  Location: (not resolved)\n")
	}

	if snap.Weather != nil {
		fmt.Fprintf(out, "  Weather:  %s%.1f°C, %.0f%% humidity, %.1fmm rain, %.1f wind%s\n",
			theme.Primary, snap.Weather.Temp, snap.Weather.Humidity, snap.Weather.Rainfall, snap.Weather.Wind, theme.Reset)
	} else {
		fmt.Fprintf(out, "  Weather:  (none)\n")
	}

	if snap.Err != nil {
		fmt.Fprintf(out, "  %sError [%s]: %v%s\n", theme.Error, snap.Err.Op, snap.Err.Err, theme.Reset)
	}
	fmt.Fprintln(out)
}

// HandleError prints an error with its operation context and returns the
// process exit code for one-shot mode.
func (Presenter) HandleError(err error, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	theme := ui.GetCurrentTheme()
	if apperrors.IsContextError(err) {
		fmt.Fprintf(out, "%sOperation canceled or timed out.%s\n", theme.Warning, theme.Reset)
	} else {
		fmt.Fprintf(out, "%sError: %v%s\n", theme.Error, err, theme.Reset)
	}
	return apperrors.ExitCode(err)
}
