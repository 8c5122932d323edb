package distance

import (
	"context"
	"fmt"
	"net/http"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
	Units     string      `json:"units"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
}

// fetchMatrix retrieves the full distance matrix in kilometres using the
// OpenRouteService matrix endpoint. A nil cell means no route was found.
func (o *ORSEdgeSource) fetchMatrix(ctx context.Context, coords []coordinates) ([][]*float64, error) {
	locations := make([][]float64, 0, len(coords))
	for _, c := range coords {
		locations = append(locations, c.lonLat())
	}

	req := matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance"},
		Units:     "km",
	}

	var mr matrixResponse
	if err := o.call(ctx, http.MethodPost, "/v2/matrix/"+o.profile, nil, req, &mr); err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}

	if len(mr.Distances) != len(coords) {
		return nil, fmt.Errorf("expected %d matrix rows, got %d", len(coords), len(mr.Distances))
	}
	for i, row := range mr.Distances {
		if len(row) != len(coords) {
			return nil, fmt.Errorf("matrix row %d has %d cells, want %d", i, len(row), len(coords))
		}
		for j, cell := range row {
			if cell != nil && *cell < 0 {
				return nil, fmt.Errorf("matrix cell %d,%d is negative", i, j)
			}
		}
	}

	return mr.Distances, nil
}
