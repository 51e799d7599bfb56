// Package config defines the application configuration and its resolution
// chain: command-line flags take priority over TERRASIM_* environment
// variables, which take priority over the optional YAML session profile,
// which takes priority over built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "TERRASIM_"

// DefaultTimeout bounds the whole one-shot pipeline.
const DefaultTimeout = 2 * time.Minute

// AppConfig holds all runtime settings of the planning client.
type AppConfig struct {
	// Endpoint is the opaque backend base URL (e.g. http://localhost:5000).
	Endpoint string
	// Crop is the crop selection by id or name.
	Crop string
	// Terrain is the terrain class (closed set, defaults to plain).
	Terrain string
	// Lat and Lon are manual coordinates; empty means unset.
	Lat string
	Lon string
	// LocateCmd is the geolocation helper invocation expected to print
	// "<lat> <lon>" on stdout. Empty means the capability is absent.
	LocateCmd string
	// SkipWeather disables the weather fetch step of the pipeline.
	SkipWeather bool
	// Timeout bounds the one-shot pipeline.
	Timeout time.Duration
	// REPL selects the interactive shell mode.
	REPL bool
	// TUI selects the dashboard mode.
	TUI bool
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string
	// NoColor disables all colorized output.
	NoColor bool
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses informational output in one-shot mode.
	Quiet bool
	// ProfilePath overrides the default session profile location.
	ProfilePath string
}

// ParseConfig parses command-line arguments into an AppConfig, then applies
// environment overrides and session profile defaults in priority order.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	var cfg AppConfig
	fs.StringVar(&cfg.Endpoint, "endpoint", "", "Backend base URL (e.g. http://localhost:5000)")
	fs.StringVar(&cfg.Crop, "crop", "", "Crop selection by id or name")
	fs.StringVar(&cfg.Terrain, "terrain", "", "Terrain class: plain, plateau, mountain, valley, coastal")
	fs.StringVar(&cfg.Lat, "lat", "", "Manual latitude")
	fs.StringVar(&cfg.Lon, "lon", "", "Manual longitude")
	fs.StringVar(&cfg.LocateCmd, "locate-cmd", "", "Geolocation helper command printing \"<lat> <lon>\"")
	fs.BoolVar(&cfg.SkipWeather, "skip-weather", false, "Skip the weather fetch step")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Overall pipeline timeout")
	fs.BoolVar(&cfg.REPL, "repl", false, "Start the interactive shell")
	fs.BoolVar(&cfg.TUI, "tui", false, "Start the dashboard")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colorized output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&cfg.Quiet, "q", false, "Suppress informational output")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress informational output")
	fs.StringVar(&cfg.ProfilePath, "profile", "", "Session profile path (default ~/.terrasim.yaml)")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\nAgricultural planning client for a remote crop-success simulation engine.\n\nOptions:\n", programName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}

	applyEnvOverrides(&cfg, fs)
	applyProfileDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency of a parsed configuration.
// The endpoint is deliberately not validated beyond what the API client
// checks later: it is an opaque user-supplied string.
func Validate(cfg AppConfig) error {
	if _, err := planning.ParseTerrain(cfg.Terrain); err != nil {
		return err
	}

	if (cfg.Lat == "") != (cfg.Lon == "") {
		return apperrors.NewConfigError("manual coordinates need both --lat and --lon")
	}
	if cfg.Lat != "" {
		lat, err := strconv.ParseFloat(cfg.Lat, 64)
		if err != nil {
			return apperrors.LocationInvalidError{Field: "lat", Message: fmt.Sprintf("%q is not a number", cfg.Lat)}
		}
		lon, err := strconv.ParseFloat(cfg.Lon, 64)
		if err != nil {
			return apperrors.LocationInvalidError{Field: "lon", Message: fmt.Sprintf("%q is not a number", cfg.Lon)}
		}
		if err := planning.NewLocation(lat, lon).Validate(); err != nil {
			return err
		}
	}

	if cfg.REPL && cfg.TUI {
		return apperrors.NewConfigError("--repl and --tui are mutually exclusive")
	}
	if cfg.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}

// ManualLocation returns the manually configured coordinates, if any.
// Validate has already established that both fields parse when set.
func (c AppConfig) ManualLocation() (lat, lon float64, ok bool) {
	if c.Lat == "" || c.Lon == "" {
		return 0, 0, false
	}
	lat, _ = strconv.ParseFloat(c.Lat, 64)
	lon, _ = strconv.ParseFloat(c.Lon, 64)
	return lat, lon, true
}
