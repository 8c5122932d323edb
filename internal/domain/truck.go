package domain

import "fmt"

// IsTruck reports whether the vehicle can act as the charging truck.
func (v *Vehicle) IsTruck() bool { return v.Kind == KindTruck }

// CanLoad reports whether the truck's remaining cargo budget covers weight.
func (v *Vehicle) CanLoad(weight int) bool {
	return v.MaxTransportWeight-weight >= 0
}

// Load a single vehicle onto the truck and recharge it.
// The truck's remaining budget shrinks by the vehicle's weight.
func (v *Vehicle) Load(other *Vehicle) error {
	if !v.IsTruck() {
		return fmt.Errorf("load truck: vehicle %d is a %s, not a truck", v.ID, v.Kind)
	}
	if !v.CanLoad(other.VehicleWeight) {
		return fmt.Errorf(
			"load truck: truck %d cannot carry vehicle %d (weight=%d remaining=%d)",
			v.ID, other.ID, other.VehicleWeight, v.MaxTransportWeight,
		)
	}

	v.MaxTransportWeight -= other.VehicleWeight
	other.BatteryLevel = FullBattery
	return nil
}
