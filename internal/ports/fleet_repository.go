package ports

import (
	"context"
	"fleet-charging-service/internal/domain"
)

// Port: a boundary to the district and vehicle registry.
type FleetRepository interface {
	// Retrieve all districts ordered by id.
	ListDistricts(ctx context.Context) ([]domain.District, error)
	GetDistrict(ctx context.Context, id int) (domain.District, error)
	// Retrieve the district-to-district edge list in insertion order.
	ListEdges(ctx context.Context) ([]domain.Edge, error)
	// Replace the whole edge list, keeping the given order.
	ReplaceEdges(ctx context.Context, edges []domain.Edge) error
	// Retrieve the fleet ordered by id. The order is the charging order.
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
	// Persist the run together with the battery levels and truck budget it changed.
	// Nothing is stored when any part fails.
	SaveRunWithStates(ctx context.Context, run domain.ChargingRun, vehicles []*domain.Vehicle) error
	ListRuns(ctx context.Context, limit int) ([]domain.ChargingRun, error)
}
