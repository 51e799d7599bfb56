package tui

import (
	"fmt"
	"strings"

	"github.com/Krish00711/TerraSim/internal/interpret"
	"github.com/Krish00711/TerraSim/internal/orchestration"
)

// ResultsModel renders the workflow status panel: current weather, the latest
// simulation outcome and the active error slot.
type ResultsModel struct {
	snap   orchestration.Snapshot
	width  int
	height int
}

// NewResultsModel creates the status panel.
func NewResultsModel() ResultsModel {
	return ResultsModel{}
}

// SetSize updates panel dimensions.
func (r *ResultsModel) SetSize(w, h int) {
	r.width = w
	r.height = h
}

// Refresh updates the panel from a controller snapshot.
func (r *ResultsModel) Refresh(snap orchestration.Snapshot) {
	r.snap = snap
}

// View renders the status panel.
func (r ResultsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("STATUS"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("State:   ") + stateStyle.Render(r.snap.State.String()))
	b.WriteString("\n")
	if r.snap.Crop != nil {
		b.WriteString(labelStyle.Render("Crop:    ") + valueStyle.Render(r.snap.Crop.Name))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Terrain: ") + valueStyle.Render(string(r.snap.Terrain)))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("WEATHER"))
	b.WriteString("\n")
	if w := r.snap.Weather; w != nil {
		b.WriteString(valueStyle.Render(fmt.Sprintf("  %.1f°C  %.0f%% humidity", w.Temp, w.Humidity)))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(fmt.Sprintf("  %.1f mm rainfall  %.1f km/h wind", w.Rainfall, w.Wind)))
		b.WriteString("\n")
	} else {
		b.WriteString(dimStyle.Render("  no snapshot (press w)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("RESULT"))
	b.WriteString("\n")
	r.renderResult(&b)

	if werr := r.snap.Err; werr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s failed: %v", werr.Op, werr.Err)))
		b.WriteString("\n")
	}

	style := panelStyle
	if r.width > 0 {
		style = style.Width(r.width)
	}
	if r.height > 0 {
		style = style.Height(r.height)
	}
	return style.Render(b.String())
}

func (r ResultsModel) renderResult(b *strings.Builder) {
	res := r.snap.Result
	if res == nil {
		b.WriteString(dimStyle.Render("  no simulation yet (press s)"))
		b.WriteString("\n")
		return
	}

	view, err := interpret.Interpret(*res)
	if err != nil {
		b.WriteString(errorStyle.Render("  " + err.Error()))
		b.WriteString("\n")
		return
	}

	if view.Override {
		b.WriteString(bannerStyle.Render("⚠ Crop unsuitable for this location — penalties applied"))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("  Success:  ") + valueStyle.Render(view.Probability))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  Yield:    ") + valueStyle.Render(view.Yield+" kg/ha"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  Risk:     ") + riskStyle(string(view.Risk)).Render(string(view.Risk)))
	b.WriteString("\n")
	if view.HasRange {
		b.WriteString(labelStyle.Render("  Range:    ") + valueStyle.Render(view.YieldRange+" kg/ha"))
		b.WriteString("\n")
	}
	if view.Explanation != "" {
		b.WriteString(dimStyle.Render("  " + view.Explanation))
		b.WriteString("\n")
	}
}
