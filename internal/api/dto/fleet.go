package dto

type DistrictResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"district"`
	Geocode string `json:"geocode"`
}

type ListDistrictsResponse struct {
	Districts []DistrictResponse `json:"districts"`
}

type EdgeResponse struct {
	OriginID      int `json:"origin_id"`
	DestinationID int `json:"destination_id"`
	Distance      int `json:"distance"`
}

type ListEdgesResponse struct {
	Edges []EdgeResponse `json:"edges"`
}

type VehicleResponse struct {
	ID                 int     `json:"id"`
	Kind               string  `json:"kind"`
	BatteryLevel       float64 `json:"battery_level"`
	Cost               float64 `json:"cost"`
	BatteryCapacity    float64 `json:"battery_capacity"`
	EnergyCostPerKm    float64 `json:"energy_cost_per_km"`
	VehicleWeight      int     `json:"vehicle_weight"`
	MaxTransportWeight int     `json:"max_transport_weight"`
	LocationID         int     `json:"location_id"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
