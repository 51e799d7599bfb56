package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Krish00711/TerraSim/internal/ui"
)

// Style variables for the TUI dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle       lipgloss.Style
	focusedPanel     lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	stateStyle       lipgloss.Style
	labelStyle       lipgloss.Style
	valueStyle       lipgloss.Style
	dimStyle         lipgloss.Style
	cursorStyle      lipgloss.Style
	successStyle     lipgloss.Style
	warningStyle     lipgloss.Style
	errorStyle       lipgloss.Style
	infoStyle        lipgloss.Style
	footerKeyStyle   lipgloss.Style
	footerDescStyle  lipgloss.Style
	bannerStyle      lipgloss.Style
	riskLowStyle     lipgloss.Style
	riskMediumStyle  lipgloss.Style
	riskHighStyle    lipgloss.Style
	riskUnknownStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Dim).
		Foreground(t.Text)

	focusedPanel = panelStyle.
		BorderForeground(t.Accent)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	stateStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	labelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	valueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	cursorStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	successStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	warningStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	infoStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	bannerStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	riskLowStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	riskMediumStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	riskHighStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	riskUnknownStyle = lipgloss.NewStyle().Foreground(t.Dim).Bold(true)
}

// riskStyle returns the style for a risk display tier.
func riskStyle(tier string) lipgloss.Style {
	switch tier {
	case "Low":
		return riskLowStyle
	case "Medium":
		return riskMediumStyle
	case "High":
		return riskHighStyle
	}
	return riskUnknownStyle
}
