package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// FetchWeather retrieves current environmental conditions for the given
// location. The location must already be validated by the caller; the
// controller guarantees this before the request is issued.
func (c *Client) FetchWeather(ctx context.Context, loc planning.Location) (*planning.WeatherSnapshot, error) {
	if err := loc.Validate(); err != nil {
		return nil, apperrors.RequestError{Op: apperrors.OpWeather, Cause: err}
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))

	var snapshot planning.WeatherSnapshot
	if err := c.do(ctx, apperrors.OpWeather, http.MethodGet, "/api/weather", query, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
