package services

import (
	"context"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/platform/obs"
	"fleet-charging-service/internal/ports"
	"fmt"
)

// RefreshEdges replaces the stored edge list with distances from src.
//
// The new list is validated against the current district count before anything
// is written, so a bad provider response leaves the old edges in place.
func RefreshEdges(ctx context.Context, repo ports.FleetRepository, src ports.EdgeSource) (_ []domain.Edge, err error) {
	defer obs.Time(ctx, "edges.Refresh")(&err)

	districts, err := repo.ListDistricts(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh edges: %w", err)
	}
	for i, d := range districts {
		if d.ID != i+1 {
			return nil, fmt.Errorf("refresh edges: district ids must be 1..%d, found %d: %w",
				len(districts), d.ID, domain.ErrOutOfRangeDistrict)
		}
	}

	edges, err := src.Edges(ctx, districts)
	if err != nil {
		return nil, fmt.Errorf("refresh edges: %w", err)
	}

	if _, err := BuildMatrix(edges, len(districts)); err != nil {
		return nil, fmt.Errorf("refresh edges: %w", err)
	}

	if err := repo.ReplaceEdges(ctx, edges); err != nil {
		return nil, fmt.Errorf("refresh edges: %w", err)
	}
	return edges, nil
}
