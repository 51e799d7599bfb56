// This file provides the REPL (Read-Eval-Print Loop) functionality for
// interactive planning sessions.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Krish00711/TerraSim/internal/geoloc"
	"github.com/Krish00711/TerraSim/internal/orchestration"
	"github.com/Krish00711/TerraSim/internal/planning"
	"github.com/Krish00711/TerraSim/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Timeout is the maximum duration for each backend operation.
	Timeout time.Duration
}

// REPL represents an interactive planning session. Every command maps to one
// controller intent; the REPL itself holds no workflow state.
type REPL struct {
	config     REPLConfig
	controller *orchestration.Controller
	presenter  Presenter
	in         io.Reader
	out        io.Writer
}

// NewREPL creates a new REPL instance driving the given controller.
func NewREPL(controller *orchestration.Controller, config REPLConfig) *REPL {
	return &REPL{
		config:     config,
		controller: controller,
		in:         os.Stdin,
		out:        os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start begins the interactive session. It continuously reads user input and
// processes commands until the user exits or EOF is reached.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"terrasim> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(ctx, input) {
			return // Exit command received
		}
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s🌾 TerraSim Planner - Interactive Mode%s               %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sendpoint <url>%s    - Configure the backend endpoint\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scrops%s             - Fetch and list the crop catalog\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scrop <name>%s       - Select a crop\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sterrain <name>%s    - Select terrain (%s)\n", ui.ColorYellow(), ui.ColorReset(), terrainList())
	fmt.Fprintf(r.out, "  %slocate%s            - Resolve location via the geolocation capability\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sloc <lat> <lon>%s   - Enter coordinates manually\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sweather%s           - Fetch current conditions for the location\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %ssimulate%s          - Run the crop-success simulation\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s            - Display the workflow status\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sresult%s            - Redisplay the last simulation result\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s              - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s      - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// terrainList returns a comma-separated list of valid terrain classes.
func terrainList() string {
	names := make([]string, len(planning.Terrains))
	for i, t := range planning.Terrains {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "endpoint", "ep":
		r.cmdEndpoint(args)
	case "crops", "catalog":
		r.cmdCrops(ctx)
	case "crop", "c":
		r.cmdCrop(args)
	case "terrain", "t":
		r.cmdTerrain(args)
	case "locate", "l":
		r.cmdLocate(ctx)
	case "loc":
		r.cmdManualLocation(args)
	case "weather", "w":
		r.cmdWeather(ctx)
	case "simulate", "sim", "s":
		r.cmdSimulate(ctx)
	case "status", "st":
		r.presenter.PresentStatus(r.controller.Snapshot(), r.out)
	case "result", "res":
		r.cmdResult()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}

	return true
}

// cmdEndpoint handles the "endpoint" command.
func (r *REPL) cmdEndpoint(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: endpoint <url>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	if err := r.controller.SetEndpoint(args[0]); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "Endpoint set to: %s%s%s\n", ui.ColorGreen(), args[0], ui.ColorReset())
}

// cmdCrops handles the "crops" command.
func (r *REPL) cmdCrops(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	err := RunStep(r.out, "Fetching crop catalog", func() error {
		return r.controller.FetchCatalog(ctx)
	})
	if err != nil {
		return
	}
	r.presenter.PresentCatalog(r.controller.Snapshot().Catalog, r.out)
}

// cmdCrop handles the "crop" command.
func (r *REPL) cmdCrop(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: crop <name>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	name := strings.Join(args, " ")
	if err := r.controller.SelectCrop(name); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "Crop selected: %s%s%s\n", ui.ColorGreen(), name, ui.ColorReset())
}

// cmdTerrain handles the "terrain" command.
func (r *REPL) cmdTerrain(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: terrain <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Valid terrains: %s\n", terrainList())
		return
	}
	if err := r.controller.SelectTerrain(args[0]); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "Terrain set to: %s%s%s\n", ui.ColorGreen(), args[0], ui.ColorReset())
}

// cmdLocate handles the "locate" command.
func (r *REPL) cmdLocate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	err := RunStep(r.out, "Resolving location", func() error {
		return r.controller.RequestLocation(ctx)
	})
	if err != nil {
		fmt.Fprintf(r.out, "Use %sloc <lat> <lon>%s to enter coordinates manually.\n",
			ui.ColorYellow(), ui.ColorReset())
		return
	}

	snap := r.controller.Snapshot()
	fmt.Fprintf(r.out, "Location: %s%.4f, %.4f%s\n",
		ui.ColorGreen(), *snap.Location.Lat, *snap.Location.Lon, ui.ColorReset())
}

// cmdManualLocation handles the "loc" command.
func (r *REPL) cmdManualLocation(args []string) {
	loc, err := geoloc.ParseCoordinates(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	if err := r.controller.SetManualLocation(*loc.Lat, *loc.Lon); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "Location set: %s%.4f, %.4f%s\n",
		ui.ColorGreen(), *loc.Lat, *loc.Lon, ui.ColorReset())
}

// cmdWeather handles the "weather" command.
func (r *REPL) cmdWeather(ctx context.Context) {
	snap := r.controller.Snapshot()
	if !snap.Location.Valid() {
		fmt.Fprintf(r.out, "%sLocation must be resolved before fetching weather.%s\n",
			ui.ColorYellow(), ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	err := RunStep(r.out, "Fetching weather", func() error {
		return r.controller.FetchWeather(ctx)
	})
	if err != nil {
		fmt.Fprintf(r.out, "%sWeather is optional — simulation can still run without it.%s\n",
			ui.ColorYellow(), ui.ColorReset())
		return
	}

	if w := r.controller.Snapshot().Weather; w != nil {
		fmt.Fprintf(r.out, "Conditions: %s%.1f°C, %.0f%% humidity, %.1fmm rain, %.1f wind%s\n",
			ui.ColorGreen(), w.Temp, w.Humidity, w.Rainfall, w.Wind, ui.ColorReset())
	}
}

// cmdSimulate handles the "simulate" command.
func (r *REPL) cmdSimulate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	err := RunStep(r.out, "Running simulation", func() error {
		return r.controller.RunSimulation(ctx)
	})
	if err != nil {
		return
	}
	r.cmdResult()
}

// cmdResult redisplays the last simulation result.
func (r *REPL) cmdResult() {
	snap := r.controller.Snapshot()
	if snap.Result == nil {
		fmt.Fprintf(r.out, "%sNo simulation result yet.%s\n", ui.ColorYellow(), ui.ColorReset())
		return
	}
	if err := r.presenter.PresentResult(*snap.Result, r.out); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	}
}
