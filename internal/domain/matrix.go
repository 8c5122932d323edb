package domain

import "math"

// Infinite marks a matrix cell with no known edge. It is never a real distance.
const Infinite = math.MaxInt

// MaxDistance is the largest edge weight accepted. Tours over any realistic number
// of districts stay far below Infinite.
const MaxDistance = math.MaxInt32

// AddDistance adds two non-negative distances, saturating at Infinite.
func AddDistance(a, b int) int {
	if a >= Infinite-b {
		return Infinite
	}
	return a + b
}

// DistanceMatrix is a dense N×N directed distance table indexed by district id-1.
type DistanceMatrix struct {
	n     int
	cells []int
}

// NewDistanceMatrix returns an n×n matrix with every cell set to Infinite.
func NewDistanceMatrix(n int) *DistanceMatrix {
	if n < 0 {
		n = 0
	}

	cells := make([]int, n*n)
	for i := range cells {
		cells[i] = Infinite
	}

	return &DistanceMatrix{n: n, cells: cells}
}

// N returns the number of districts the matrix covers.
func (m *DistanceMatrix) N() int { return m.n }

func (m *DistanceMatrix) At(i, j int) int { return m.cells[i*m.n+j] }

func (m *DistanceMatrix) Set(i, j, distance int) { m.cells[i*m.n+j] = distance }

// Reachable reports whether a finite edge exists from i to j.
func (m *DistanceMatrix) Reachable(i, j int) bool { return m.At(i, j) != Infinite }

// Equal compares two matrices cell by cell.
func (m *DistanceMatrix) Equal(other *DistanceMatrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.n != other.n {
		return false
	}
	for i := range m.cells {
		if m.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a copy of the matrix as nested slices.
func (m *DistanceMatrix) Rows() [][]int {
	rows := make([][]int, m.n)
	for i := 0; i < m.n; i++ {
		rows[i] = make([]int, m.n)
		copy(rows[i], m.cells[i*m.n:(i+1)*m.n])
	}
	return rows
}
