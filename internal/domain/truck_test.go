package domain

import (
	"testing"
)

func TestTruckLoad(t *testing.T) {
	truck := &Vehicle{ID: 9, Kind: KindTruck, MaxTransportWeight: 10, LocationID: 1}
	scooter := &Vehicle{ID: 1, Kind: KindScooter, BatteryLevel: 20, VehicleWeight: 6, LocationID: 2}
	bike := &Vehicle{ID: 2, Kind: KindBicycle, BatteryLevel: 30, VehicleWeight: 6, LocationID: 2}

	if err := truck.Load(scooter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if truck.MaxTransportWeight != 4 {
		t.Fatalf("remaining = %d, want 4", truck.MaxTransportWeight)
	}
	if scooter.BatteryLevel != FullBattery {
		t.Fatalf("scooter battery = %v, want %d", scooter.BatteryLevel, FullBattery)
	}

	if err := truck.Load(bike); err == nil {
		t.Fatalf("expected error loading bike over capacity")
	}
	if bike.BatteryLevel != 30 {
		t.Errorf("bike battery changed to %v", bike.BatteryLevel)
	}
	if truck.MaxTransportWeight != 4 {
		t.Errorf("remaining changed to %d after failed load", truck.MaxTransportWeight)
	}

	if scooter.LocationID != 2 || truck.LocationID != 1 {
		t.Errorf("load must not relocate vehicles")
	}
}

func TestTruckLoadExactFit(t *testing.T) {
	truck := &Vehicle{ID: 9, Kind: KindTruck, MaxTransportWeight: 6}
	bike := &Vehicle{ID: 2, Kind: KindBicycle, BatteryLevel: 10, VehicleWeight: 6}

	if err := truck.Load(bike); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truck.MaxTransportWeight != 0 {
		t.Fatalf("remaining = %d, want 0", truck.MaxTransportWeight)
	}
}

func TestLoadRequiresTruck(t *testing.T) {
	scooter := &Vehicle{ID: 1, Kind: KindScooter, MaxTransportWeight: 100}
	bike := &Vehicle{ID: 2, Kind: KindBicycle, BatteryLevel: 10, VehicleWeight: 1}

	if err := scooter.Load(bike); err == nil {
		t.Fatalf("expected error when loading onto a non-truck")
	}
}

func TestNeedsCharge(t *testing.T) {
	cases := []struct {
		name string
		v    Vehicle
		want bool
	}{
		{"low scooter", Vehicle{Kind: KindScooter, BatteryLevel: 49.9}, true},
		{"low bicycle", Vehicle{Kind: KindBicycle, BatteryLevel: 0}, true},
		{"threshold scooter", Vehicle{Kind: KindScooter, BatteryLevel: 50}, false},
		{"low truck", Vehicle{Kind: KindTruck, BatteryLevel: 10}, false},
		{"low other", Vehicle{Kind: KindOther, BatteryLevel: 10}, false},
	}

	for _, tc := range cases {
		if got := tc.v.NeedsCharge(); got != tc.want {
			t.Errorf("%s: NeedsCharge() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseVehicleKind(t *testing.T) {
	k, err := ParseVehicleKind(" Scooter ")
	if err != nil || k != KindScooter {
		t.Fatalf("ParseVehicleKind = %q, %v", k, err)
	}
	if _, err := ParseVehicleKind("hovercraft"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRouteDistrictIDs(t *testing.T) {
	r := Route{Cost: 3, Stops: []int{0, 1, 2}}
	ids := r.DistrictIDs()
	want := []int{1, 2, 3}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("DistrictIDs() = %v, want %v", ids, want)
		}
	}
	if r.Origin() != 0 {
		t.Fatalf("Origin() = %d, want 0", r.Origin())
	}
}

func TestDistanceMatrixEqual(t *testing.T) {
	a := NewDistanceMatrix(2)
	b := NewDistanceMatrix(2)
	a.Set(0, 1, 5)
	if a.Equal(b) {
		t.Fatalf("matrices differ at (0,1) but compare equal")
	}
	b.Set(0, 1, 5)
	if !a.Equal(b) {
		t.Fatalf("matrices should compare equal")
	}
	if a.Reachable(1, 0) {
		t.Fatalf("(1,0) should be unreachable")
	}
	if NewDistanceMatrix(3).Equal(a) {
		t.Fatalf("different sizes compare equal")
	}
}

func TestAddDistanceSaturates(t *testing.T) {
	if got := AddDistance(3, 4); got != 7 {
		t.Fatalf("AddDistance(3, 4) = %d, want 7", got)
	}
	if got := AddDistance(Infinite-1, 1); got != Infinite {
		t.Fatalf("AddDistance at the limit = %d, want Infinite", got)
	}
	if got := AddDistance(Infinite-1, 5); got != Infinite {
		t.Fatalf("AddDistance past the limit = %d, want Infinite", got)
	}
	if got := AddDistance(Infinite, 0); got != Infinite {
		t.Fatalf("AddDistance(Infinite, 0) = %d, want Infinite", got)
	}
}
