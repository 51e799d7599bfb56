package api

import (
	"context"
	"net/http"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// Simulate submits one simulation request and returns the parsed result.
// Exactly one POST is issued per call; the adapter performs no validation of
// the result payload beyond JSON decoding, leaving contract checks to the
// controller so that malformed figures never reach presentation state.
func (c *Client) Simulate(ctx context.Context, req planning.SimulationRequest) (*planning.SimulationResult, error) {
	var result planning.SimulationResult
	if err := c.do(ctx, apperrors.OpSimulation, http.MethodPost, "/api/simulate", nil, req, &result); err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.CountSimulation(result.RiskLevel)
	}
	return &result, nil
}
