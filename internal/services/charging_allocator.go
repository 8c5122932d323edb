package services

import (
	"fleet-charging-service/internal/domain"
	"fmt"

	"github.com/samber/lo"
)

// FindTruck returns the first truck in fleet order.
// With several trucks in the fleet only the first one takes part in a run.
func FindTruck(fleet []*domain.Vehicle) (*domain.Vehicle, error) {
	truck, ok := lo.Find(fleet, func(v *domain.Vehicle) bool {
		return v != nil && v.IsTruck()
	})
	if !ok {
		return nil, fmt.Errorf("find truck: %w", domain.ErrMissingTruck)
	}
	return truck, nil
}

// ChargeAlongRoute walks the route in order and spends the truck's transport budget
// on low-battery bicycles and scooters parked at each stop.
//
// At every stop the truck's working location moves to that stop, then eligible
// vehicles are taken in fleet order (first-fit greedy). The first vehicle the truck
// cannot carry ends processing for that stop; the next stop starts fresh.
// Not a knapsack: an affordable vehicle later in the list can
// be left unserved.
//
// Only BatteryLevel and the truck's MaxTransportWeight change. Returns the ids of the
// charged vehicles in the order they were charged.
func ChargeAlongRoute(route domain.Route, fleet []*domain.Vehicle, truck *domain.Vehicle) ([]int, error) {
	if truck == nil || !truck.IsTruck() {
		return nil, fmt.Errorf("charge along route: %w", domain.ErrMissingTruck)
	}
	if len(route.Stops) == 0 {
		return nil, fmt.Errorf("charge along route: %w", domain.ErrEmptyRoute)
	}

	charged := []int{}
	for _, districtID := range route.DistrictIDs() {
		location := districtID

		eligible := lo.Filter(fleet, func(v *domain.Vehicle, _ int) bool {
			return v != nil && v.LocationID == location && v.NeedsCharge()
		})

		for _, v := range eligible {
			if !truck.CanLoad(v.VehicleWeight) {
				break
			}
			if err := truck.Load(v); err != nil {
				return charged, fmt.Errorf("charge along route: district %d: %w", location, err)
			}
			charged = append(charged, v.ID)
		}
	}

	return charged, nil
}
