package domain

import "errors"

var (
	// An edge or origin references a district id outside [1, n].
	ErrOutOfRangeDistrict = errors.New("district out of range")

	// No closed tour visits every district and returns to the origin.
	ErrInfeasible = errors.New("no feasible route")

	// The fleet has no truck to carry charging payload.
	ErrMissingTruck = errors.New("no truck in fleet")

	ErrEmptyRoute      = errors.New("route is empty")
	ErrInvalidMatrix   = errors.New("invalid distance matrix")
	ErrInvalidDistance = errors.New("invalid distance")
	ErrNotFound        = errors.New("not found")
)
