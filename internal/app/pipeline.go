package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Krish00711/TerraSim/internal/cli"
	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/orchestration"
)

// runPipeline executes the full planning workflow once: catalog and location
// in parallel, then crop and terrain selection, an optional weather fetch and
// finally the simulation.
func (a *Application) runPipeline(ctx context.Context, ctrl *orchestration.Controller, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	presenter := cli.Presenter{}

	if a.Config.Endpoint == "" {
		fmt.Fprintln(a.ErrWriter, "Error: an endpoint is required (--endpoint or TERRASIM_ENDPOINT).")
		return apperrors.ExitErrorConfig
	}
	if a.Config.Crop == "" {
		fmt.Fprintln(a.ErrWriter, "Error: a crop is required (--crop or TERRASIM_CROP).")
		return apperrors.ExitErrorConfig
	}

	stepOut := out
	if a.Config.Quiet {
		stepOut = io.Discard
	}

	// Catalog and location have no ordering dependency.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cli.RunStep(stepOut, "Fetching crop catalog", func() error {
			return ctrl.FetchCatalog(gctx)
		})
	})
	g.Go(func() error {
		return cli.RunStep(stepOut, "Resolving location", func() error {
			return ctrl.RequestLocation(gctx)
		})
	})
	if err := g.Wait(); err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}

	if err := ctrl.SelectCrop(a.Config.Crop); err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}
	if a.Config.Terrain != "" {
		if err := ctrl.SelectTerrain(a.Config.Terrain); err != nil {
			return presenter.HandleError(err, a.ErrWriter)
		}
	}

	// Weather is advisory. A failed fetch degrades the simulation to
	// terrain-only modelling instead of aborting the run.
	if !a.Config.SkipWeather {
		err := cli.RunStep(stepOut, "Fetching weather", func() error {
			return ctrl.FetchWeather(ctx)
		})
		if err != nil {
			fmt.Fprintln(stepOut, "  continuing without weather data")
		}
	}

	err := cli.RunStep(stepOut, "Running simulation", func() error {
		return ctrl.RunSimulation(ctx)
	})
	if err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}

	snap := ctrl.Snapshot()
	if snap.Result == nil {
		fmt.Fprintln(a.ErrWriter, "Error: simulation produced no result.")
		return apperrors.ExitErrorGeneric
	}
	if err := presenter.PresentResult(*snap.Result, out); err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}
	return apperrors.ExitSuccess
}
