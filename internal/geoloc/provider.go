// Package geoloc models the device geolocation capability: a one-shot "get
// current coordinates" call that either yields a coordinate pair or a typed
// denial with a human-readable reason. There is no continuous tracking.
package geoloc

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// Provider resolves the current coordinates exactly once per call.
// Implementations return either a Location that passes validation or an
// error; a capability refusal surfaces as apperrors.LocationDeniedError.
type Provider interface {
	// Locate returns the current coordinates or a failure reason.
	Locate(ctx context.Context) (planning.Location, error)
}

// ProviderFunc is a function adapter that implements Provider.
type ProviderFunc func(ctx context.Context) (planning.Location, error)

// Locate calls the underlying function.
func (f ProviderFunc) Locate(ctx context.Context) (planning.Location, error) {
	return f(ctx)
}

// StaticProvider yields fixed coordinates supplied ahead of time (flags or
// session profile).
type StaticProvider struct {
	Lat float64
	Lon float64
}

// Locate returns the configured coordinates after range validation.
func (p StaticProvider) Locate(context.Context) (planning.Location, error) {
	loc := planning.NewLocation(p.Lat, p.Lon)
	if err := loc.Validate(); err != nil {
		return planning.Location{}, err
	}
	return loc, nil
}

// CommandProvider shells out to a user-configured helper program expected to
// print "<lat> <lon>" on stdout. This is how the client reaches whatever
// positioning capability the host system offers.
type CommandProvider struct {
	// Command is the helper invocation, split on whitespace.
	Command string
}

// Locate runs the helper and parses its output.
func (p CommandProvider) Locate(ctx context.Context) (planning.Location, error) {
	parts := strings.Fields(p.Command)
	if len(parts) == 0 {
		return planning.Location{}, apperrors.LocationDeniedError{Reason: "no geolocation helper configured"}
	}

	out, err := exec.CommandContext(ctx, parts[0], parts[1:]...).Output()
	if err != nil {
		return planning.Location{}, apperrors.LocationDeniedError{
			Reason: fmt.Sprintf("geolocation helper failed: %v", err),
		}
	}

	return ParseCoordinates(string(out))
}

// DeniedProvider represents an absent or refused capability. Every call
// fails with the configured reason.
type DeniedProvider struct {
	Reason string
}

// Locate always reports the denial.
func (p DeniedProvider) Locate(context.Context) (planning.Location, error) {
	reason := p.Reason
	if reason == "" {
		reason = "geolocation capability unavailable"
	}
	return planning.Location{}, apperrors.LocationDeniedError{Reason: reason}
}

// ParseCoordinates parses a "<lat> <lon>" pair (whitespace or comma
// separated) into a validated Location. It is shared by the command provider
// and the manual-entry paths of the presentation surfaces.
func ParseCoordinates(s string) (planning.Location, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})
	if len(fields) != 2 {
		return planning.Location{}, apperrors.LocationInvalidError{
			Field: "lat", Message: fmt.Sprintf("expected \"<lat> <lon>\", got %q", strings.TrimSpace(s)),
		}
	}

	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return planning.Location{}, apperrors.LocationInvalidError{
			Field: "lat", Message: fmt.Sprintf("%q is not a number", fields[0]),
		}
	}
	lon, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return planning.Location{}, apperrors.LocationInvalidError{
			Field: "lon", Message: fmt.Sprintf("%q is not a number", fields[1]),
		}
	}

	loc := planning.NewLocation(lat, lon)
	if err := loc.Validate(); err != nil {
		return planning.Location{}, err
	}
	return loc, nil
}
