package ports

import (
	"context"
	"fleet-charging-service/internal/domain"
)

// Port: an external provider of district-to-district distances.
type EdgeSource interface {
	// Edges returns the directed edges between the given districts.
	// Pairs the provider cannot connect are omitted.
	Edges(ctx context.Context, districts []domain.District) ([]domain.Edge, error)
}
