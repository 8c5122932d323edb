package domain

import (
	"fmt"
	"strings"
)

type VehicleKind string

const (
	KindBicycle VehicleKind = "bicycle"
	KindScooter VehicleKind = "scooter"
	KindTruck   VehicleKind = "truck"
	KindOther   VehicleKind = "other"
)

// Battery levels strictly below this need a recharge.
const LowBatteryThreshold = 50

const FullBattery = 100

// ParseVehicleKind maps a stored or user-supplied kind name onto a VehicleKind.
func ParseVehicleKind(s string) (VehicleKind, error) {
	switch VehicleKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBicycle:
		return KindBicycle, nil
	case KindScooter:
		return KindScooter, nil
	case KindTruck:
		return KindTruck, nil
	case KindOther:
		return KindOther, nil
	}
	return "", fmt.Errorf("parse vehicle kind: unknown kind %q", s)
}

// Represents a single fleet vehicle as supplied by the vehicle registry.
// MaxTransportWeight is meaningful only for trucks: it is the remaining cargo
// budget for carrying vehicles to recharge.
type Vehicle struct {
	ID                 int
	Kind               VehicleKind
	BatteryLevel       float64
	Cost               float64
	BatteryCapacity    float64
	EnergyCostPerKm    float64
	VehicleWeight      int
	MaxTransportWeight int
	LocationID         int
}

// NeedsCharge reports whether the vehicle is a low-battery bicycle or scooter.
func (v *Vehicle) NeedsCharge() bool {
	if v.Kind != KindBicycle && v.Kind != KindScooter {
		return false
	}
	return v.BatteryLevel < LowBatteryThreshold
}
