package events

import (
	"encoding/json"
	"fleet-charging-service/internal/domain"
	"time"
)

// RunMessage is the wire form of a completed charging run.
type RunMessage struct {
	RunID             string    `json:"run_id"`
	OriginID          int       `json:"origin_id"`
	StartedAt         time.Time `json:"started_at"`
	RouteCost         int       `json:"route_cost"`
	RouteDistrictIDs  []int     `json:"route_district_ids"`
	TruckID           int       `json:"truck_id"`
	ChargedVehicleIDs []int     `json:"charged_vehicle_ids"`
	RemainingCapacity int       `json:"remaining_capacity"`
}

func NewRunMessage(run domain.ChargingRun) RunMessage {
	charged := run.Charged
	if charged == nil {
		charged = []int{}
	}
	return RunMessage{
		RunID:             run.ID,
		OriginID:          run.OriginID,
		StartedAt:         run.StartedAt.UTC(),
		RouteCost:         run.Route.Cost,
		RouteDistrictIDs:  run.Route.DistrictIDs(),
		TruckID:           run.TruckID,
		ChargedVehicleIDs: charged,
		RemainingCapacity: run.RemainingCapacity,
	}
}

func encodeRun(run domain.ChargingRun) ([]byte, error) {
	return json.Marshal(NewRunMessage(run))
}
