package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/platform/obs"
	"fmt"
	"time"
)

// SQL-backed implementation of the FleetRepository port (SQLite or Postgres).
type SQLFleetRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLFleetRepository(db *sql.DB, dialect Dialect) *SQLFleetRepository {
	return &SQLFleetRepository{DB: db, Dialect: dialect}
}

// Return all districts ordered by id.
func (s *SQLFleetRepository) ListDistricts(ctx context.Context) (_ []domain.District, err error) {
	defer obs.Time(ctx, "fleet.ListDistricts")(&err)

	if s.DB == nil {
		return nil, errors.New("fleet repository: DB is nil")
	}

	query := `
	SELECT id, name, geocode
	FROM districts
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list districts: query districts table: %w", err)
	}
	defer rows.Close()

	districts := make([]domain.District, 0, 16)
	for rows.Next() {
		var d domain.District
		if err := rows.Scan(&d.ID, &d.Name, &d.Geocode); err != nil {
			return nil, fmt.Errorf("list districts: scan row: %w", err)
		}
		districts = append(districts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list districts: row iteration: %w", err)
	}

	return districts, nil
}

func (s *SQLFleetRepository) GetDistrict(ctx context.Context, id int) (domain.District, error) {
	if s.DB == nil {
		return domain.District{}, errors.New("fleet repository: DB is nil")
	}

	query := s.Dialect.Rebind(`SELECT id, name, geocode FROM districts WHERE id = ?;`)

	var d domain.District
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.Geocode)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.District{}, fmt.Errorf("get district %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.District{}, fmt.Errorf("get district %d: %w", id, err)
	}
	return d, nil
}

// Return the edge list in the order it was stored, so later duplicates still win.
func (s *SQLFleetRepository) ListEdges(ctx context.Context) (_ []domain.Edge, err error) {
	defer obs.Time(ctx, "fleet.ListEdges")(&err)

	if s.DB == nil {
		return nil, errors.New("fleet repository: DB is nil")
	}

	query := `
	SELECT origin_id, destination_id, distance
	FROM edges
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list edges: query edges table: %w", err)
	}
	defer rows.Close()

	edges := make([]domain.Edge, 0, 64)
	for rows.Next() {
		var e domain.Edge
		if err := rows.Scan(&e.OriginID, &e.DestinationID, &e.Distance); err != nil {
			return nil, fmt.Errorf("list edges: scan row: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list edges: row iteration: %w", err)
	}

	return edges, nil
}

// Return the fleet ordered by id.
func (s *SQLFleetRepository) ListVehicles(ctx context.Context) (_ []*domain.Vehicle, err error) {
	defer obs.Time(ctx, "fleet.ListVehicles")(&err)

	if s.DB == nil {
		return nil, errors.New("fleet repository: DB is nil")
	}

	query := `
	SELECT
		id,
		kind,
		battery_level,
		cost,
		battery_capacity,
		energy_cost_per_km,
		vehicle_weight,
		max_transport_weight,
		location_id
	FROM vehicles
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 64)
	for rows.Next() {
		var v domain.Vehicle
		var kind string
		if err := rows.Scan(
			&v.ID, &kind, &v.BatteryLevel, &v.Cost, &v.BatteryCapacity,
			&v.EnergyCostPerKm, &v.VehicleWeight, &v.MaxTransportWeight, &v.LocationID,
		); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}

		v.Kind, err = domain.ParseVehicleKind(kind)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: vehicle %d: %w", v.ID, err)
		}
		vehicles = append(vehicles, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

func (s *SQLFleetRepository) ReplaceEdges(ctx context.Context, edges []domain.Edge) (err error) {
	defer obs.Time(ctx, "fleet.ReplaceEdges")(&err)

	if s.DB == nil {
		return errors.New("fleet repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace edges: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM edges;`); err != nil {
		return fmt.Errorf("replace edges: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO edges (seq, origin_id, destination_id, distance)
	VALUES (?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("replace edges: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, e := range edges {
		if _, err := stmt.ExecContext(ctx, i+1, e.OriginID, e.DestinationID, e.Distance); err != nil {
			return fmt.Errorf("replace edges: edge %d->%d: %w", e.OriginID, e.DestinationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace edges: commit: %w", err)
	}
	return nil
}

// SaveRunWithStates persists the new vehicle states and the run record in one
// transaction: either both are stored or neither is.
func (s *SQLFleetRepository) SaveRunWithStates(ctx context.Context, run domain.ChargingRun, vehicles []*domain.Vehicle) (err error) {
	defer obs.Time(ctx, "fleet.SaveRunWithStates")(&err)

	if s.DB == nil {
		return errors.New("fleet repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run %s: db begin: %w", run.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.updateVehicleStates(ctx, tx, vehicles); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	if err := s.insertRun(ctx, tx, run); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: commit: %w", run.ID, err)
	}
	return nil
}

// Write battery levels and transport budgets. Unknown vehicle ids are an error.
func (s *SQLFleetRepository) updateVehicleStates(ctx context.Context, tx *sql.Tx, vehicles []*domain.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	UPDATE vehicles
	SET battery_level = ?,
		max_transport_weight = ?
	WHERE id = ?;
	`))
	if err != nil {
		return fmt.Errorf("update vehicle states: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, v := range vehicles {
		res, err := stmt.ExecContext(ctx, v.BatteryLevel, v.MaxTransportWeight, v.ID)
		if err != nil {
			return fmt.Errorf("update vehicle states: vehicle %d: %w", v.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update vehicle states: vehicle %d: %w", v.ID, domain.ErrNotFound)
		}
	}
	return nil
}

// Fixed-width so started_at sorts chronologically as text.
const startedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (s *SQLFleetRepository) insertRun(ctx context.Context, tx *sql.Tx, run domain.ChargingRun) error {
	stops, err := json.Marshal(run.Route.Stops)
	if err != nil {
		return fmt.Errorf("insert run: encode stops: %w", err)
	}
	charged, err := json.Marshal(run.Charged)
	if err != nil {
		return fmt.Errorf("insert run: encode charged: %w", err)
	}

	query := s.Dialect.Rebind(`
	INSERT INTO charging_runs (
		id, origin_id, started_at, cost, stops, truck_id, charged, remaining_capacity
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if _, err := tx.ExecContext(
		ctx, query,
		run.ID, run.OriginID, run.StartedAt.UTC().Format(startedAtLayout),
		run.Route.Cost, string(stops), run.TruckID, string(charged), run.RemainingCapacity,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Return the most recent runs first.
func (s *SQLFleetRepository) ListRuns(ctx context.Context, limit int) ([]domain.ChargingRun, error) {
	if s.DB == nil {
		return nil, errors.New("fleet repository: DB is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	query := s.Dialect.Rebind(`
	SELECT id, origin_id, started_at, cost, stops, truck_id, charged, remaining_capacity
	FROM charging_runs
	ORDER BY started_at DESC, id
	LIMIT ?;
	`)
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query charging_runs table: %w", err)
	}
	defer rows.Close()

	runs := []domain.ChargingRun{}
	for rows.Next() {
		var (
			run       domain.ChargingRun
			startedAt string
			stops     string
			charged   string
		)
		if err := rows.Scan(
			&run.ID, &run.OriginID, &startedAt, &run.Route.Cost, &stops,
			&run.TruckID, &charged, &run.RemainingCapacity,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}

		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("list runs: run %s: parse started_at: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(stops), &run.Route.Stops); err != nil {
			return nil, fmt.Errorf("list runs: run %s: decode stops: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(charged), &run.Charged); err != nil {
			return nil, fmt.Errorf("list runs: run %s: decode charged: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}
