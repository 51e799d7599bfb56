package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Krish00711/TerraSim/internal/config"
	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/orchestration"
)

// SessionState holds the execution-related fields of a TUI session.
type SessionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	exitCode   int
}

// Model is the root bubbletea model for the planning dashboard. All workflow
// state lives in the controller; the model re-reads a snapshot after every
// completed operation.
type Model struct {
	header  HeaderModel
	form    FormModel
	results ResultsModel
	footer  FooterModel

	keymap KeyMap

	SessionState

	parentCtx context.Context
	ctrl      *orchestration.Controller
	config    config.AppConfig

	width  int
	height int
}

// NewModel creates a new dashboard model.
func NewModel(parentCtx context.Context, ctrl *orchestration.Controller, cfg config.AppConfig, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	keymap := DefaultKeyMap()

	m := Model{
		header:  NewHeaderModel(version),
		form:    NewFormModel(),
		results: NewResultsModel(),
		footer:  NewFooterModel(keymap),
		keymap:  keymap,
		SessionState: SessionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		ctrl:      ctrl,
		config:    cfg,
	}
	m.refresh()
	return m
}

// refresh re-reads the controller snapshot into every sub-model.
func (m *Model) refresh() {
	snap := m.ctrl.Snapshot()
	m.header.Refresh(snap)
	m.form.Refresh(snap)
	m.results.Refresh(snap)
	m.footer.SetBusy(snap.State.Busy())
	m.footer.SetError(snap.Err != nil)
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case OpDoneMsg:
		if msg.Generation != m.generation {
			return m, nil // stale completion from a cancelled session
		}
		m.refresh()
		return m, nil

	case TickMsg:
		m.refresh()
		return m, tickCmd()

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Tab):
		m.form.NextSection()
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.form.MoveUp()
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.form.MoveDown()
		return m, nil

	case key.Matches(msg, m.keymap.Enter):
		if m.form.Apply(m.ctrl) {
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Catalog):
		return m, m.operationCmd(apperrors.OpCatalog, m.ctrl.FetchCatalog)

	case key.Matches(msg, m.keymap.Locate):
		return m, m.operationCmd(apperrors.OpLocation, m.ctrl.RequestLocation)

	case key.Matches(msg, m.keymap.Weather):
		return m, m.operationCmd(apperrors.OpWeather, m.ctrl.FetchWeather)

	case key.Matches(msg, m.keymap.Simulate):
		return m, m.operationCmd(apperrors.OpSimulation, m.ctrl.RunSimulation)

	case key.Matches(msg, m.keymap.Reset):
		// Cancel in-flight operations; their completions are dropped by the
		// generation check.
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel
		m.refresh()
		return m, watchContextCmd(m.ctx, m.generation)
	}

	// Remaining keys feed the coordinate field when it has focus.
	m.form.HandleKey(msg)
	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.form.View(), m.results.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// Layout constants for the dashboard.
const (
	headerHeight         = 1
	footerHeight         = 1
	minBodyHeight        = 4
	formPanelWidthPercent = 45
)

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)

	body := m.height - headerHeight - footerHeight
	if body < minBodyHeight {
		body = minBodyHeight
	}
	formWidth := m.width * formPanelWidthPercent / 100
	m.form.SetSize(formWidth, body)
	m.results.SetSize(m.width-formWidth, body)
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, ctrl *orchestration.Controller, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, ctrl, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// operationCmd runs one controller operation with the configured timeout and
// reports its completion.
func (m Model) operationCmd(op apperrors.Operation, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	gen := m.generation
	timeout := m.config.Timeout
	return func() tea.Msg {
		opCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		err := fn(opCtx)
		return OpDoneMsg{Op: op, Err: err, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
