package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fleet-charging-service/internal/adapters/repositories"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/platform/obs"
	"fmt"
	"strings"
)

// SQLRouteCache is a SQL-backed cache of solved tours (table route_cache).
type SQLRouteCache struct {
	DB      *sql.DB
	Dialect repositories.Dialect
}

func NewSQLRouteCache(db *sql.DB, dialect repositories.Dialect) *SQLRouteCache {
	return &SQLRouteCache{DB: db, Dialect: dialect}
}

// Fetch a cached tour. The bool is false on a miss.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	q := s.Dialect.Rebind(`
	SELECT cost, stops
	FROM route_cache
	WHERE cache_key = ?;
	`)

	var cost int
	var stops string
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&cost, &stops)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	route := domain.Route{Cost: cost}
	if err := json.Unmarshal([]byte(stops), &route.Stops); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: decode stops: %w", err)
	}
	return route, true, nil
}

// Store a solved tour, replacing any previous entry for key.
func (s *SQLRouteCache) Put(ctx context.Context, key string, route domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}
	if len(route.Stops) == 0 {
		return fmt.Errorf("insert route cache: %w", domain.ErrEmptyRoute)
	}

	stops, err := json.Marshal(route.Stops)
	if err != nil {
		return fmt.Errorf("insert route cache: encode stops: %w", err)
	}

	q := s.Dialect.Rebind(`
	INSERT INTO route_cache (cache_key, cost, stops)
	VALUES (?, ?, ?)
	ON CONFLICT (cache_key) DO UPDATE
	SET cost = EXCLUDED.cost,
		stops = EXCLUDED.stops;
	`)
	if _, err := s.DB.ExecContext(ctx, q, key, route.Cost, string(stops)); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
