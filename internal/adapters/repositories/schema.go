package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fleet-charging-service/internal/domain"
	"fmt"
	"os"
	"strings"
)

// Initialize the database schema. The DDL is shared by SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDistrictsQuery := `
	CREATE TABLE IF NOT EXISTS districts (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		geocode TEXT NOT NULL
	);
	`

	createEdgesQuery := `
	CREATE TABLE IF NOT EXISTS edges (
		seq INTEGER PRIMARY KEY,
		origin_id INTEGER NOT NULL,
		destination_id INTEGER NOT NULL,
		distance INTEGER NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL,
		battery_level DOUBLE PRECISION NOT NULL,
		cost DOUBLE PRECISION NOT NULL,
		battery_capacity DOUBLE PRECISION NOT NULL,
		energy_cost_per_km DOUBLE PRECISION NOT NULL,
		vehicle_weight INTEGER NOT NULL,
		max_transport_weight INTEGER NOT NULL,
		location_id INTEGER NOT NULL
	);
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS charging_runs (
		id TEXT PRIMARY KEY,
		origin_id INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		cost INTEGER NOT NULL,
		stops TEXT NOT NULL,
		truck_id INTEGER NOT NULL,
		charged TEXT NOT NULL,
		remaining_capacity INTEGER NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		cost INTEGER NOT NULL,
		stops TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_vehicles_location
	ON vehicles(location_id);
	`

	statements := []string{
		createDistrictsQuery,
		createEdgesQuery,
		createVehiclesQuery,
		createRunsQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DistrictSeed struct {
	ID      int    `json:"id"`
	Name    string `json:"district"`
	Geocode string `json:"geocode"`
}

type EdgeSeed struct {
	OriginID      int `json:"origin_id"`
	DestinationID int `json:"destination_id"`
	Distance      int `json:"distance"`
}

type VehicleSeed struct {
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

type FleetSeed struct {
	Districts []DistrictSeed `json:"districts"`
	Edges     []EdgeSeed     `json:"edges"`
	Vehicles  []VehicleSeed  `json:"vehicles"`
}

// Populate the database with districts, edges and vehicles from a JSON file.
// Existing rows with the same ids are replaced; the edge list is replaced wholesale.
func SeedFromJSON(db *sql.DB, dialect Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed fleet: read %q: %w", jsonPath, err)
	}

	var data FleetSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed fleet: parse json: %w", err)
	}

	return Seed(db, dialect, data)
}

// SeedFromJSONIfEmpty seeds only when the districts table is empty. Battery levels,
// truck budgets and derived edges written since the first seed are left alone.
// Reports whether the seed was applied.
func SeedFromJSONIfEmpty(db *sql.DB, dialect Dialect, jsonPath string) (bool, error) {
	if db == nil {
		return false, errors.New("seed fleet: DB is nil")
	}

	var districts int
	if err := db.QueryRow(`SELECT COUNT(*) FROM districts;`).Scan(&districts); err != nil {
		return false, fmt.Errorf("seed fleet: count districts: %w", err)
	}
	if districts > 0 {
		return false, nil
	}

	if err := SeedFromJSON(db, dialect, jsonPath); err != nil {
		return false, err
	}
	return true, nil
}

// Seed validates and writes a fleet snapshot in a single transaction.
func Seed(db *sql.DB, dialect Dialect, data FleetSeed) error {
	if db == nil {
		return errors.New("seed fleet: DB is nil")
	}

	if err := validateSeed(data); err != nil {
		return fmt.Errorf("seed fleet: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed fleet: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	districtQuery := dialect.Rebind(`
	INSERT INTO districts (id, name, geocode)
	VALUES (?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		geocode = EXCLUDED.geocode;
	`)
	for _, d := range data.Districts {
		if _, err := tx.Exec(districtQuery, d.ID, strings.TrimSpace(d.Name), strings.TrimSpace(d.Geocode)); err != nil {
			return fmt.Errorf("seed fleet: insert district id=%d: %w", d.ID, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM edges;`); err != nil {
		return fmt.Errorf("seed fleet: clear edges: %w", err)
	}
	edgeQuery := dialect.Rebind(`
	INSERT INTO edges (seq, origin_id, destination_id, distance)
	VALUES (?, ?, ?, ?);
	`)
	for i, e := range data.Edges {
		if _, err := tx.Exec(edgeQuery, i+1, e.OriginID, e.DestinationID, e.Distance); err != nil {
			return fmt.Errorf("seed fleet: insert edge #%d: %w", i+1, err)
		}
	}

	vehicleQuery := dialect.Rebind(`
	INSERT INTO vehicles (
		id, kind, battery_level, cost, battery_capacity,
		energy_cost_per_km, vehicle_weight, max_transport_weight, location_id
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET kind = EXCLUDED.kind,
		battery_level = EXCLUDED.battery_level,
		cost = EXCLUDED.cost,
		battery_capacity = EXCLUDED.battery_capacity,
		energy_cost_per_km = EXCLUDED.energy_cost_per_km,
		vehicle_weight = EXCLUDED.vehicle_weight,
		max_transport_weight = EXCLUDED.max_transport_weight,
		location_id = EXCLUDED.location_id;
	`)
	for _, v := range data.Vehicles {
		kind, _ := domain.ParseVehicleKind(v.Kind)
		if _, err := tx.Exec(
			vehicleQuery,
			v.ID, string(kind), v.BatteryLevel, v.Cost, v.BatteryCapacity,
			v.EnergyCostPerKm, v.VehicleWeight, v.MaxTransportWeight, v.LocationID,
		); err != nil {
			return fmt.Errorf("seed fleet: insert vehicle id=%d: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fleet: commit tx: %w", err)
	}

	return nil
}

func validateSeed(data FleetSeed) error {
	for i, d := range data.Districts {
		if d.ID <= 0 {
			return fmt.Errorf("invalid district id at index %d: %d", i+1, d.ID)
		}
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("district at index %d: name cannot be empty", i+1)
		}
	}

	for i, e := range data.Edges {
		if e.OriginID <= 0 || e.DestinationID <= 0 {
			return fmt.Errorf("invalid edge at index %d: %d->%d", i+1, e.OriginID, e.DestinationID)
		}
		if e.Distance < 0 || e.Distance > domain.MaxDistance {
			return fmt.Errorf("edge at index %d: distance %d outside [0,%d]", i+1, e.Distance, domain.MaxDistance)
		}
	}

	for i, v := range data.Vehicles {
		if v.ID <= 0 {
			return fmt.Errorf("invalid vehicle id at index %d: %d", i+1, v.ID)
		}
		if _, err := domain.ParseVehicleKind(v.Kind); err != nil {
			return fmt.Errorf("vehicle id=%d: %w", v.ID, err)
		}
		if v.BatteryLevel < 0 || v.BatteryLevel > domain.FullBattery {
			return fmt.Errorf("vehicle id=%d: battery level %v outside [0,100]", v.ID, v.BatteryLevel)
		}
		if v.VehicleWeight < 0 || v.MaxTransportWeight < 0 {
			return fmt.Errorf("vehicle id=%d: weights must be non-negative", v.ID)
		}
	}

	return nil
}
