package services

import (
	"context"
	"errors"
	"fleet-charging-service/internal/domain"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryFleet is an in-memory FleetRepository that hands out copies, like a database would.
type memoryFleet struct {
	mu        sync.Mutex
	districts []domain.District
	edges     []domain.Edge
	vehicles  map[int]domain.Vehicle
	order     []int
	runs      []domain.ChargingRun
	saveErr   error
}

func newMemoryFleet(districts []domain.District, edges []domain.Edge, vehicles []domain.Vehicle) *memoryFleet {
	f := &memoryFleet{districts: districts, edges: edges, vehicles: map[int]domain.Vehicle{}}
	for _, v := range vehicles {
		f.vehicles[v.ID] = v
		f.order = append(f.order, v.ID)
	}
	return f
}

func (f *memoryFleet) ListDistricts(ctx context.Context) ([]domain.District, error) {
	return append([]domain.District(nil), f.districts...), nil
}

func (f *memoryFleet) GetDistrict(ctx context.Context, id int) (domain.District, error) {
	for _, d := range f.districts {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.District{}, domain.ErrNotFound
}

func (f *memoryFleet) ListEdges(ctx context.Context) ([]domain.Edge, error) {
	return append([]domain.Edge(nil), f.edges...), nil
}

func (f *memoryFleet) ReplaceEdges(ctx context.Context, edges []domain.Edge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges = append([]domain.Edge(nil), edges...)
	return nil
}

func (f *memoryFleet) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Vehicle, 0, len(f.order))
	for _, id := range f.order {
		v := f.vehicles[id]
		out = append(out, &v)
	}
	return out, nil
}

func (f *memoryFleet) SaveRunWithStates(ctx context.Context, run domain.ChargingRun, vehicles []*domain.Vehicle) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range vehicles {
		f.vehicles[v.ID] = *v
	}
	f.runs = append(f.runs, run)
	return nil
}

func (f *memoryFleet) ListRuns(ctx context.Context, limit int) ([]domain.ChargingRun, error) {
	return f.runs, nil
}

type memoryCache struct {
	m    map[string]domain.Route
	gets int
}

func (c *memoryCache) Get(ctx context.Context, key string) (domain.Route, bool, error) {
	c.gets++
	r, ok := c.m[key]
	return r, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, route domain.Route) error {
	c.m[key] = route
	return nil
}

type recordingPublisher struct {
	runs []domain.ChargingRun
	err  error
}

func (p *recordingPublisher) PublishRun(ctx context.Context, run domain.ChargingRun) error {
	p.runs = append(p.runs, run)
	return p.err
}

func testDistricts() []domain.District {
	return []domain.District{
		{ID: 1, Name: "Braga", Geocode: "a"},
		{ID: 2, Name: "Barcelos", Geocode: "b"},
		{ID: 3, Name: "Guimarães", Geocode: "c"},
	}
}

func testVehicles() []domain.Vehicle {
	return []domain.Vehicle{
		{ID: 1, Kind: domain.KindScooter, BatteryLevel: 20, VehicleWeight: 6, LocationID: 2},
		{ID: 2, Kind: domain.KindBicycle, BatteryLevel: 10, VehicleWeight: 6, LocationID: 3},
		{ID: 3, Kind: domain.KindScooter, BatteryLevel: 90, VehicleWeight: 6, LocationID: 3},
		{ID: 4, Kind: domain.KindTruck, BatteryLevel: 80, VehicleWeight: 3000, MaxTransportWeight: 10, LocationID: 1},
	}
}

func TestChargingServiceRun(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryFleet(testDistricts(), triangleEdges(), testVehicles())
	cache := &memoryCache{m: map[string]domain.Route{}}
	pub := &recordingPublisher{}

	svc := NewChargingService(repo, cache, pub)
	fixed := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	run, err := svc.Run(ctx, RunRequest{OriginID: 1})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, fixed, run.StartedAt)
	assert.Equal(t, []int{1, 2, 3}, run.Route.DistrictIDs())
	assert.Equal(t, 4, run.TruckID)
	assert.Equal(t, []int{1}, run.Charged)
	assert.Equal(t, 4, run.RemainingCapacity)

	// State is persisted through the repository.
	assert.Equal(t, 100.0, repo.vehicles[1].BatteryLevel)
	assert.Equal(t, 10.0, repo.vehicles[2].BatteryLevel)
	assert.Equal(t, 4, repo.vehicles[4].MaxTransportWeight)
	assert.Equal(t, 1, repo.vehicles[4].LocationID)
	require.Len(t, repo.runs, 1)
	require.Len(t, pub.runs, 1)
	assert.Equal(t, run.ID, pub.runs[0].ID)
	assert.Len(t, cache.m, 1)

	// The second run reads the updated fleet and the cached route.
	run2, err := svc.Run(ctx, RunRequest{OriginID: 1})
	require.NoError(t, err)
	assert.Equal(t, run.Route, run2.Route)
	assert.Empty(t, run2.Charged)
	assert.Equal(t, 2, cache.gets)
	assert.NotEqual(t, run.ID, run2.ID)
}

func TestChargingServiceRunMissingTruck(t *testing.T) {
	vehicles := testVehicles()[:3]
	repo := newMemoryFleet(testDistricts(), triangleEdges(), vehicles)
	svc := NewChargingService(repo, nil, nil)

	_, err := svc.Run(context.Background(), RunRequest{OriginID: 1})
	require.ErrorIs(t, err, domain.ErrMissingTruck)

	assert.Equal(t, 20.0, repo.vehicles[1].BatteryLevel)
	assert.Empty(t, repo.runs)
}

func TestChargingServiceRunInfeasible(t *testing.T) {
	repo := newMemoryFleet(testDistricts(), triangleEdges()[:2], testVehicles())
	svc := NewChargingService(repo, nil, nil)

	_, err := svc.Run(context.Background(), RunRequest{OriginID: 1})
	require.ErrorIs(t, err, domain.ErrInfeasible)
	assert.Empty(t, repo.runs)
	assert.Equal(t, 10, repo.vehicles[4].MaxTransportWeight)
}

func TestChargingServiceRunBadOrigin(t *testing.T) {
	repo := newMemoryFleet(testDistricts(), triangleEdges(), testVehicles())
	svc := NewChargingService(repo, nil, nil)

	_, err := svc.Run(context.Background(), RunRequest{OriginID: 4})
	assert.ErrorIs(t, err, domain.ErrOutOfRangeDistrict)
}

func TestChargingServicePublishFailureIsNotFatal(t *testing.T) {
	repo := newMemoryFleet(testDistricts(), triangleEdges(), testVehicles())
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewChargingService(repo, nil, pub)

	_, err := svc.Run(context.Background(), RunRequest{OriginID: 1})
	require.NoError(t, err)
	assert.Len(t, repo.runs, 1)
}

func TestChargingServiceSaveFailure(t *testing.T) {
	repo := newMemoryFleet(testDistricts(), triangleEdges(), testVehicles())
	repo.saveErr = errors.New("disk full")
	svc := NewChargingService(repo, nil, nil)

	_, err := svc.Run(context.Background(), RunRequest{OriginID: 1})
	require.Error(t, err)
	assert.Empty(t, repo.runs)
	assert.Equal(t, 20.0, repo.vehicles[1].BatteryLevel)
	assert.Equal(t, 10, repo.vehicles[4].MaxTransportWeight)
}

func TestChargingServicePreview(t *testing.T) {
	repo := newMemoryFleet(testDistricts(), triangleEdges(), testVehicles())
	svc := NewChargingService(repo, nil, nil)

	route, err := svc.Preview(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1}, route.DistrictIDs())
	assert.Equal(t, 3, route.Cost)

	assert.Equal(t, 20.0, repo.vehicles[1].BatteryLevel)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "infeasible", outcome(domain.ErrInfeasible))
	assert.Equal(t, "missing_truck", outcome(domain.ErrMissingTruck))
	assert.Equal(t, "invalid_input", outcome(domain.ErrOutOfRangeDistrict))
	assert.Equal(t, "no_districts", outcome(domain.ErrInvalidMatrix))
	assert.Equal(t, "error", outcome(errors.New("x")))
}
