package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// FooterModel renders the bottom bar with key hints and status flags.
type FooterModel struct {
	keymap KeyMap
	width  int
	busy   bool
	err    bool
}

// NewFooterModel creates a new footer.
func NewFooterModel(keymap KeyMap) FooterModel {
	return FooterModel{keymap: keymap}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
}

// SetBusy toggles the in-flight indicator.
func (f *FooterModel) SetBusy(busy bool) {
	f.busy = busy
}

// SetError toggles the error indicator.
func (f *FooterModel) SetError(hasErr bool) {
	f.err = hasErr
}

// View renders the footer.
func (f FooterModel) View() string {
	bindings := []key.Binding{
		f.keymap.Tab,
		f.keymap.Enter,
		f.keymap.Catalog,
		f.keymap.Locate,
		f.keymap.Weather,
		f.keymap.Simulate,
		f.keymap.Reset,
		f.keymap.Quit,
	}

	var parts []string
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}

	line := strings.Join(parts, footerDescStyle.Render("  "))
	if f.busy {
		line += "  " + infoStyle.Render("working…")
	}
	if f.err {
		line += "  " + errorStyle.Render("error")
	}
	return line
}
