package api

import (
	"context"
	"net/http"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// FetchCrops retrieves the full crop catalog from the backend.
// The catalog is a pure read: the client holds no state beyond the request.
func (c *Client) FetchCrops(ctx context.Context) (planning.Catalog, error) {
	var catalog planning.Catalog
	if err := c.do(ctx, apperrors.OpCatalog, http.MethodGet, "/api/crops", nil, nil, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}
