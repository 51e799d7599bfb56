package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/Krish00711/TerraSim/internal/format"
	"github.com/Krish00711/TerraSim/internal/ui"
)

// SpinnerRefreshRate defines the refresh frequency of the request spinner.
const SpinnerRefreshRate = 150 * time.Millisecond

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows the step runner to be decoupled from a specific spinner
// implementation, facilitating easier testing.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner wraps spinner.Spinner to implement the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() { rs.s.Start() }

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, spinner.WithWriter(out))
	return &realSpinner{s}
}

// RunStep executes one workflow step with a spinner and prints its outcome
// with the round-trip duration. The step's error is returned unchanged so
// callers keep their error-policy decisions.
func RunStep(out io.Writer, label string, fn func() error) error {
	sp := newSpinner(out)
	sp.UpdateSuffix(" " + label)
	sp.Start()

	start := time.Now()
	err := fn()
	duration := time.Since(start)
	sp.Stop()

	if err != nil {
		fmt.Fprintf(out, "%s✗%s %s (%s): %v\n",
			ui.ColorRed(), ui.ColorReset(), label, format.FormatRequestDuration(duration), err)
		return err
	}
	fmt.Fprintf(out, "%s✓%s %s (%s)\n",
		ui.ColorGreen(), ui.ColorReset(), label, format.FormatRequestDuration(duration))
	return nil
}
