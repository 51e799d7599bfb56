package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Krish00711/TerraSim/internal/orchestration"
)

// HeaderModel renders the top bar: title, endpoint, workflow state, elapsed time.
type HeaderModel struct {
	startTime time.Time
	version   string
	endpoint  string
	state     orchestration.WorkflowState
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Refresh updates the header from a controller snapshot.
func (h *HeaderModel) Refresh(snap orchestration.Snapshot) {
	h.endpoint = snap.Endpoint
	h.state = snap.State
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "TerraSim"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)

	pipe := dimStyle.Render(" | ")

	endpoint := h.endpoint
	if endpoint == "" {
		endpoint = "no endpoint"
	}

	left := title + pipe + valueStyle.Render(endpoint) +
		pipe + stateStyle.Render(h.state.String()) +
		pipe + dimStyle.Render(fmt.Sprintf("Elapsed: %s", time.Since(h.startTime).Round(time.Second)))

	gap := h.width - 2 - lipgloss.Width(left)
	if gap < 0 {
		gap = 0
	}

	return headerStyle.Width(h.width).Render(left + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
