package services

import (
	"fleet-charging-service/internal/domain"
	"fmt"
)

// PlanResult is the outcome of one routing + charging pass.
type PlanResult struct {
	Route   domain.Route
	TruckID int
	Charged []int
}

// PlanAndCharge composes the three phases: build the distance matrix, solve the tour
// from originID and charge vehicles along it.
//
// All preconditions (edge ranges, a truck in the fleet, a feasible tour) are checked
// before the fleet is touched, so a failed call leaves every vehicle unchanged.
func PlanAndCharge(edges []domain.Edge, n int, originID int, fleet []*domain.Vehicle) (PlanResult, error) {
	truck, err := FindTruck(fleet)
	if err != nil {
		return PlanResult{}, fmt.Errorf("plan and charge: %w", err)
	}

	route, err := PlanRoute(edges, n, originID)
	if err != nil {
		return PlanResult{}, fmt.Errorf("plan and charge: %w", err)
	}

	charged, err := ChargeAlongRoute(route, fleet, truck)
	if err != nil {
		return PlanResult{}, fmt.Errorf("plan and charge: truck %d: %w", truck.ID, err)
	}

	return PlanResult{Route: route, TruckID: truck.ID, Charged: charged}, nil
}

// PlanRoute builds the matrix and solves the tour without charging anything.
func PlanRoute(edges []domain.Edge, n int, originID int) (domain.Route, error) {
	m, err := BuildMatrix(edges, n)
	if err != nil {
		return domain.Route{}, fmt.Errorf("plan route: %w", err)
	}

	if originID < 1 || originID > n {
		return domain.Route{}, fmt.Errorf(
			"plan route: origin %d outside [1,%d]: %w",
			originID, n, domain.ErrOutOfRangeDistrict,
		)
	}

	route, err := FindRoute(m, originID-1)
	if err != nil {
		return domain.Route{}, fmt.Errorf("plan route: %w", err)
	}
	return route, nil
}
