package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Krish00711/TerraSim/internal/api"
	"github.com/Krish00711/TerraSim/internal/cli"
	"github.com/Krish00711/TerraSim/internal/config"
	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/geoloc"
	"github.com/Krish00711/TerraSim/internal/logging"
	"github.com/Krish00711/TerraSim/internal/metrics"
	"github.com/Krish00711/TerraSim/internal/orchestration"
	"github.com/Krish00711/TerraSim/internal/tui"
	"github.com/Krish00711/TerraSim/internal/ui"
)

// Application represents the terrasim application instance.
type Application struct {
	Config    config.AppConfig
	Locator   geoloc.Provider
	ErrWriter io.Writer

	log     logging.Logger
	metrics *metrics.Metrics
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLocator sets a custom location provider for the application.
func WithLocator(p geoloc.Provider) AppOption {
	return func(a *Application) { a.Locator = p }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "terrasim"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	ui.InitTheme(a.Config.NoColor)

	a.log = logging.NewDefaultLogger()
	a.metrics = metrics.New()

	if a.Config.MetricsAddr != "" {
		go func() {
			if err := a.metrics.Serve(a.Config.MetricsAddr); err != nil {
				a.log.Error("metrics listener stopped", err,
					logging.String("addr", a.Config.MetricsAddr))
			}
		}()
	}

	if a.Locator == nil {
		a.Locator = a.buildLocator()
	}

	ctrl := orchestration.NewController(a.backendFactory(),
		orchestration.WithLocator(a.Locator),
		orchestration.WithLogger(a.log),
	)

	if a.Config.Endpoint != "" {
		if err := ctrl.SetEndpoint(a.Config.Endpoint); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
	}

	if a.Config.TUI {
		return a.runTUI(ctx, ctrl)
	}
	if a.Config.REPL {
		return a.runREPL(ctx, ctrl, out)
	}
	return a.runPipeline(ctx, ctrl, out)
}

// backendFactory builds API clients carrying the application's logger and
// metrics registry.
func (a *Application) backendFactory() orchestration.BackendFactory {
	return func(endpoint string) (orchestration.Backend, error) {
		return api.NewClient(endpoint,
			api.WithLogger(a.log),
			api.WithMetrics(a.metrics),
		)
	}
}

// buildLocator picks the location source from the configuration. Manual
// coordinates win over a locate command; with neither, location requests are
// denied until coordinates are entered interactively.
func (a *Application) buildLocator() geoloc.Provider {
	if lat, lon, ok := a.Config.ManualLocation(); ok {
		return geoloc.StaticProvider{Lat: lat, Lon: lon}
	}
	if a.Config.LocateCmd != "" {
		return geoloc.CommandProvider{Command: a.Config.LocateCmd}
	}
	return geoloc.DeniedProvider{Reason: "no location source configured"}
}

// runREPL starts the interactive command loop.
func (a *Application) runREPL(ctx context.Context, ctrl *orchestration.Controller, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	repl := cli.NewREPL(ctrl, cli.REPLConfig{Timeout: a.Config.Timeout})
	repl.SetOutput(out)
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context, ctrl *orchestration.Controller) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return tui.Run(ctx, ctrl, a.Config, Version)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
