package services

import (
	"fleet-charging-service/internal/domain"
	"fmt"
)

// BuildMatrix turns a flat edge list into a dense directed distance matrix.
//
// Every cell starts as domain.Infinite. Each edge fills matrix[origin-1][destination-1];
// a repeated ordered pair overwrites the earlier distance. No reverse edge is inferred.
// Distances must lie in [0, domain.MaxDistance].
// The returned matrix is owned by the caller.
func BuildMatrix(edges []domain.Edge, n int) (*domain.DistanceMatrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("build matrix: district count %d: %w", n, domain.ErrInvalidMatrix)
	}

	m := domain.NewDistanceMatrix(n)
	for i, e := range edges {
		if e.OriginID < 1 || e.OriginID > n || e.DestinationID < 1 || e.DestinationID > n {
			return nil, fmt.Errorf(
				"build matrix: edge #%d %d->%d outside [1,%d]: %w",
				i+1, e.OriginID, e.DestinationID, n, domain.ErrOutOfRangeDistrict,
			)
		}
		if e.Distance < 0 || e.Distance > domain.MaxDistance {
			return nil, fmt.Errorf(
				"build matrix: edge #%d %d->%d distance %d: %w",
				i+1, e.OriginID, e.DestinationID, e.Distance, domain.ErrInvalidDistance,
			)
		}

		m.Set(e.OriginID-1, e.DestinationID-1, e.Distance)
	}

	return m, nil
}
