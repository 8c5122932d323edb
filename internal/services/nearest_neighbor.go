package services

import (
	"fleet-charging-service/internal/domain"
)

// NearestNeighborTour builds a closed tour greedily: from the current district it
// always moves to the closest unvisited one, lowest index first on ties.
//
// The result is not optimal. ok is false when the greedy walk gets stuck or has no
// edge back to origin; that does not mean no tour exists.
func NearestNeighborTour(m *domain.DistanceMatrix, origin int) (route domain.Route, ok bool) {
	n := m.N()
	visited := make([]bool, n)
	stops := make([]int, 0, n)

	visited[origin] = true
	stops = append(stops, origin)
	current := origin
	total := 0

	for len(stops) < n {
		best := -1
		minDistance := domain.Infinite

		// Select next stop by minimum distance (greedy step).
		for next := 0; next < n; next++ {
			if visited[next] || !m.Reachable(current, next) {
				continue
			}
			if d := m.At(current, next); d < minDistance {
				minDistance = d
				best = next
			}
		}

		if best < 0 {
			return domain.Route{}, false
		}

		total = domain.AddDistance(total, minDistance)
		visited[best] = true
		stops = append(stops, best)
		current = best
	}

	if !m.Reachable(current, origin) {
		return domain.Route{}, false
	}
	total = domain.AddDistance(total, m.At(current, origin))
	if total == domain.Infinite {
		return domain.Route{}, false
	}

	return domain.Route{Cost: total, Stops: stops}, true
}
