package dto

import "time"

type RouteRequest struct {
	OriginID int `json:"origin_id"`
}

type RouteResponse struct {
	OriginID    int   `json:"origin_id"`
	Cost        int   `json:"cost"`
	DistrictIDs []int `json:"district_ids"`
}

type ChargingRunRequest struct {
	OriginID int `json:"origin_id"`
}

type ChargingRunResponse struct {
	RunID             string        `json:"run_id"`
	StartedAt         time.Time     `json:"started_at"`
	Route             RouteResponse `json:"route"`
	TruckID           int           `json:"truck_id"`
	ChargedVehicleIDs []int         `json:"charged_vehicle_ids"`
	RemainingCapacity int           `json:"remaining_capacity"`
}

type ListChargingRunsResponse struct {
	Runs []ChargingRunResponse `json:"runs"`
}
