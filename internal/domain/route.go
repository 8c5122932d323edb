package domain

import "time"

// Route is a closed tour over every district.
// Stops holds zero-based district indices, origin first; the return leg to the
// origin is included in Cost but the origin is not repeated at the tail.
// It is immutable planning data.
type Route struct {
	Cost  int
	Stops []int
}

// Origin returns the starting district index.
func (r Route) Origin() int { return r.Stops[0] }

// DistrictIDs returns the stops as 1-based district ids.
func (r Route) DistrictIDs() []int {
	ids := make([]int, len(r.Stops))
	for i, s := range r.Stops {
		ids[i] = s + 1
	}
	return ids
}

// Represents one completed routing + charging operation.
type ChargingRun struct {
	ID                string
	OriginID          int
	StartedAt         time.Time
	Route             Route
	TruckID           int
	Charged           []int
	RemainingCapacity int
}
