package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Krish00711/TerraSim/internal/geoloc"
	"github.com/Krish00711/TerraSim/internal/orchestration"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// formSection identifies which part of the parameter form has focus.
type formSection int

const (
	sectionCrops formSection = iota
	sectionTerrain
	sectionLocation
)

// FormModel is the parameter panel: crop catalog, terrain selector and a
// manual coordinate field. Selections are applied to the controller on Enter.
type FormModel struct {
	catalog  planning.Catalog
	terrains []planning.Terrain

	focused       formSection
	cropCursor    int
	terrainCursor int

	// Manual location input, e.g. "45.5, -73.6".
	coords    string
	cursorPos int

	selectedCrop    string
	selectedTerrain planning.Terrain
	location        planning.Location
	inputErr        error

	width  int
	height int
}

// NewFormModel creates the parameter form.
func NewFormModel() FormModel {
	return FormModel{
		terrains:        planning.Terrains,
		selectedTerrain: planning.TerrainPlain,
	}
}

// SetSize updates panel dimensions.
func (f *FormModel) SetSize(w, h int) {
	f.width = w
	f.height = h
}

// Refresh synchronizes the form with a controller snapshot.
func (f *FormModel) Refresh(snap orchestration.Snapshot) {
	f.catalog = snap.Catalog
	if f.cropCursor >= len(f.catalog) {
		f.cropCursor = 0
	}
	if snap.Crop != nil {
		f.selectedCrop = snap.Crop.Name
	}
	f.selectedTerrain = snap.Terrain
	f.location = snap.Location
}

// NextSection moves focus to the next form section.
func (f *FormModel) NextSection() {
	f.focused = (f.focused + 1) % 3
}

// MoveUp moves the cursor within the focused section.
func (f *FormModel) MoveUp() {
	switch f.focused {
	case sectionCrops:
		if f.cropCursor > 0 {
			f.cropCursor--
		}
	case sectionTerrain:
		if f.terrainCursor > 0 {
			f.terrainCursor--
		}
	}
}

// MoveDown moves the cursor within the focused section.
func (f *FormModel) MoveDown() {
	switch f.focused {
	case sectionCrops:
		if f.cropCursor < len(f.catalog)-1 {
			f.cropCursor++
		}
	case sectionTerrain:
		if f.terrainCursor < len(f.terrains)-1 {
			f.terrainCursor++
		}
	}
}

// Apply commits the focused selection to the controller. It reports whether
// anything was applied so the dashboard can refresh its snapshot.
func (f *FormModel) Apply(ctrl *orchestration.Controller) bool {
	f.inputErr = nil
	switch f.focused {
	case sectionCrops:
		if len(f.catalog) == 0 || f.cropCursor >= len(f.catalog) {
			return false
		}
		if err := ctrl.SelectCrop(f.catalog[f.cropCursor].ID); err != nil {
			f.inputErr = err
			return false
		}
	case sectionTerrain:
		if err := ctrl.SelectTerrain(string(f.terrains[f.terrainCursor])); err != nil {
			f.inputErr = err
			return false
		}
	case sectionLocation:
		loc, err := geoloc.ParseCoordinates(f.coords)
		if err != nil {
			f.inputErr = err
			return false
		}
		if err := ctrl.SetManualLocation(*loc.Lat, *loc.Lon); err != nil {
			f.inputErr = err
			return false
		}
	}
	return true
}

// HandleKey processes editing keys for the coordinate field. Only coordinate
// characters reach the field, so single-letter shortcuts stay usable.
func (f *FormModel) HandleKey(msg tea.KeyMsg) {
	if f.focused != sectionLocation {
		return
	}
	switch msg.Type {
	case tea.KeyBackspace:
		if len(f.coords) > 0 && f.cursorPos > 0 {
			f.coords = f.coords[:f.cursorPos-1] + f.coords[f.cursorPos:]
			f.cursorPos--
		}
	case tea.KeyDelete:
		if f.cursorPos < len(f.coords) {
			f.coords = f.coords[:f.cursorPos] + f.coords[f.cursorPos+1:]
		}
	case tea.KeyLeft:
		if f.cursorPos > 0 {
			f.cursorPos--
		}
	case tea.KeyRight:
		if f.cursorPos < len(f.coords) {
			f.cursorPos++
		}
	case tea.KeyHome:
		f.cursorPos = 0
	case tea.KeyEnd:
		f.cursorPos = len(f.coords)
	case tea.KeyRunes, tea.KeySpace:
		for _, r := range msg.Runes {
			if isCoordinateRune(r) {
				f.coords = f.coords[:f.cursorPos] + string(r) + f.coords[f.cursorPos:]
				f.cursorPos++
			}
		}
		if msg.Type == tea.KeySpace {
			f.coords = f.coords[:f.cursorPos] + " " + f.coords[f.cursorPos:]
			f.cursorPos++
		}
	}
}

func isCoordinateRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' || r == '+'
}

// View renders the parameter form.
func (f FormModel) View() string {
	var b strings.Builder

	b.WriteString(f.sectionTitle("CROPS", sectionCrops))
	b.WriteString("\n")
	if len(f.catalog) == 0 {
		b.WriteString(dimStyle.Render("  press c to fetch the catalog"))
		b.WriteString("\n")
	}
	for i, crop := range f.catalog {
		line := fmt.Sprintf("%s (%s)", crop.Name, crop.Category)
		switch {
		case f.focused == sectionCrops && i == f.cropCursor:
			b.WriteString(cursorStyle.Render("> " + line))
		case crop.Name == f.selectedCrop:
			b.WriteString(successStyle.Render("* " + line))
		default:
			b.WriteString(valueStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(f.sectionTitle("TERRAIN", sectionTerrain))
	b.WriteString("\n")
	for i, t := range f.terrains {
		switch {
		case f.focused == sectionTerrain && i == f.terrainCursor:
			b.WriteString(cursorStyle.Render("> " + string(t)))
		case t == f.selectedTerrain:
			b.WriteString(successStyle.Render("* " + string(t)))
		default:
			b.WriteString(valueStyle.Render("  " + string(t)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(f.sectionTitle("LOCATION", sectionLocation))
	b.WriteString("\n")
	display := f.coords
	if f.focused == sectionLocation {
		if f.cursorPos >= len(display) {
			display += "|"
		} else {
			display = display[:f.cursorPos] + "|" + display[f.cursorPos:]
		}
	}
	if display == "" {
		display = "lat, lon…"
	}
	b.WriteString("  " + valueStyle.Render(display))
	b.WriteString("\n")
	if f.location.Valid() {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  current: %.4f, %.4f", *f.location.Lat, *f.location.Lon)))
		b.WriteString("\n")
	}

	if f.inputErr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  " + f.inputErr.Error()))
	}

	style := panelStyle
	if f.width > 0 {
		style = style.Width(f.width)
	}
	if f.height > 0 {
		style = style.Height(f.height)
	}
	return style.Render(b.String())
}

func (f FormModel) sectionTitle(label string, s formSection) string {
	if f.focused == s {
		return lipgloss.NewStyle().Inherit(titleStyle).Render(label)
	}
	return dimStyle.Render(label)
}
