package services

import (
	"fleet-charging-service/internal/domain"
	"fmt"
)

// tourSearch holds the state of one exhaustive tour search.
type tourSearch struct {
	m        *domain.DistanceMatrix
	n        int
	origin   int
	visited  []bool
	path     []int
	bestCost int
	bestPath []int
}

// FindRoute finds the minimum-cost closed tour that starts at origin, visits every
// district exactly once and returns to origin.
//
// The search is exact: a depth-first walk over permutations of the unvisited
// districts, trying candidates in ascending index order and following only finite
// edges. Ties keep the first tour discovered in that order. A greedy tour, when one
// exists, only seeds the pruning bound; it never becomes the answer on its own.
// Complexity is exponential in the district count, which is expected to be small.
func FindRoute(m *domain.DistanceMatrix, origin int) (domain.Route, error) {
	if m == nil || m.N() == 0 {
		return domain.Route{}, fmt.Errorf("find route: %w", domain.ErrInvalidMatrix)
	}

	n := m.N()
	if origin < 0 || origin >= n {
		return domain.Route{}, fmt.Errorf(
			"find route: origin index %d outside [0,%d): %w",
			origin, n, domain.ErrOutOfRangeDistrict,
		)
	}

	// A single district has no legs to travel.
	if n == 1 {
		return domain.Route{Cost: 0, Stops: []int{origin}}, nil
	}

	s := &tourSearch{
		m:        m,
		n:        n,
		origin:   origin,
		visited:  make([]bool, n),
		path:     make([]int, 0, n),
		bestCost: domain.Infinite,
	}

	// One above the greedy cost: every tour at least as good as the greedy one is
	// still explored, so the first optimal tour in search order is kept.
	if greedy, ok := NearestNeighborTour(m, origin); ok && greedy.Cost < domain.Infinite-1 {
		s.bestCost = greedy.Cost + 1
	}

	s.visited[origin] = true
	s.path = append(s.path, origin)
	s.walk(origin, 0)

	if s.bestPath == nil {
		return domain.Route{}, fmt.Errorf("find route: from district %d: %w", origin+1, domain.ErrInfeasible)
	}

	return domain.Route{Cost: s.bestCost, Stops: s.bestPath}, nil
}

func (s *tourSearch) walk(current, cost int) {
	if len(s.path) == s.n {
		if !s.m.Reachable(current, s.origin) {
			return
		}

		total := domain.AddDistance(cost, s.m.At(current, s.origin))
		if total < s.bestCost {
			s.bestCost = total
			s.bestPath = append(s.bestPath[:0], s.path...)
		}
		return
	}

	for next := 0; next < s.n; next++ {
		if s.visited[next] || !s.m.Reachable(current, next) {
			continue
		}

		// Distances are non-negative, so a partial path that already matches the best
		// tour cannot finish strictly below it.
		step := domain.AddDistance(cost, s.m.At(current, next))
		if step >= s.bestCost {
			continue
		}

		s.visited[next] = true
		s.path = append(s.path, next)
		s.walk(next, step)
		s.path = s.path[:len(s.path)-1]
		s.visited[next] = false
	}
}
