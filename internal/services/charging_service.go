package services

import (
	"context"
	"errors"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/platform/metrics"
	"fleet-charging-service/internal/platform/obs"
	"fleet-charging-service/internal/ports"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ChargingService runs routing + charging against the fleet registry.
//
// Runs are serialized: the fleet snapshot loaded for one run is mutated and written
// back before the next run loads it. Cache and Publisher are optional.
type ChargingService struct {
	Repo      ports.FleetRepository
	Cache     ports.RouteCache
	Publisher ports.RunPublisher
	Now       func() time.Time

	mu sync.Mutex
}

func NewChargingService(repo ports.FleetRepository, cache ports.RouteCache, publisher ports.RunPublisher) *ChargingService {
	return &ChargingService{
		Repo:      repo,
		Cache:     cache,
		Publisher: publisher,
		Now:       time.Now,
	}
}

type RunRequest struct {
	OriginID int
}

// fleetSnapshot is the registry state a single run works on.
type fleetSnapshot struct {
	districts []domain.District
	edges     []domain.Edge
	vehicles  []*domain.Vehicle
}

func (s *ChargingService) load(ctx context.Context) (fleetSnapshot, error) {
	var snap fleetSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.districts, err = s.Repo.ListDistricts(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.edges, err = s.Repo.ListEdges(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.vehicles, err = s.Repo.ListVehicles(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return fleetSnapshot{}, fmt.Errorf("load fleet snapshot: %w", err)
	}
	return snap, nil
}

// Preview solves the tour from originID without charging anything.
func (s *ChargingService) Preview(ctx context.Context, originID int) (_ domain.Route, err error) {
	defer obs.Time(ctx, "charging.Preview")(&err)

	snap, err := s.load(ctx)
	if err != nil {
		return domain.Route{}, fmt.Errorf("preview route: %w", err)
	}

	route, err := s.route(ctx, snap, originID)
	if err != nil {
		return domain.Route{}, fmt.Errorf("preview route: %w", err)
	}
	return route, nil
}

// Run plans the tour from the requested origin, charges vehicles along it and persists
// the new vehicle states. Publishing failures are logged, not returned.
func (s *ChargingService) Run(ctx context.Context, req RunRequest) (run domain.ChargingRun, err error) {
	defer obs.Time(ctx, "charging.Run")(&err)
	defer func() { metrics.ChargingRuns.WithLabelValues(outcome(err)).Inc() }()

	s.mu.Lock()
	defer s.mu.Unlock()

	started := s.now()

	snap, err := s.load(ctx)
	if err != nil {
		return domain.ChargingRun{}, fmt.Errorf("charging run: %w", err)
	}

	// Fail before any mutation when the fleet cannot be served.
	truck, err := FindTruck(snap.vehicles)
	if err != nil {
		return domain.ChargingRun{}, fmt.Errorf("charging run: %w", err)
	}

	route, err := s.route(ctx, snap, req.OriginID)
	if err != nil {
		return domain.ChargingRun{}, fmt.Errorf("charging run: %w", err)
	}

	charged, err := ChargeAlongRoute(route, snap.vehicles, truck)
	if err != nil {
		return domain.ChargingRun{}, fmt.Errorf("charging run: truck %d: %w", truck.ID, err)
	}

	run = domain.ChargingRun{
		ID:                uuid.New().String(),
		OriginID:          req.OriginID,
		StartedAt:         started,
		Route:             route,
		TruckID:           truck.ID,
		Charged:           charged,
		RemainingCapacity: truck.MaxTransportWeight,
	}

	if err := s.Repo.SaveRunWithStates(ctx, run, changedVehicles(snap.vehicles, truck, charged)); err != nil {
		return domain.ChargingRun{}, fmt.Errorf("charging run: persist run: %w", err)
	}

	metrics.VehiclesCharged.Add(float64(len(charged)))

	if s.Publisher != nil {
		if err := s.Publisher.PublishRun(ctx, run); err != nil {
			logrus.WithFields(logrus.Fields{
				"req_id": obs.RequestID(ctx),
				"run_id": run.ID,
			}).WithError(err).Warn("publish charging run failed")
		}
	}

	return run, nil
}

// route builds the matrix from the snapshot and solves it, consulting the cache.
// The district count is taken from the loaded district list.
func (s *ChargingService) route(ctx context.Context, snap fleetSnapshot, originID int) (domain.Route, error) {
	n := len(snap.districts)
	if n == 0 {
		return domain.Route{}, fmt.Errorf("plan route: no districts: %w", domain.ErrInvalidMatrix)
	}

	m, err := BuildMatrix(snap.edges, n)
	if err != nil {
		return domain.Route{}, fmt.Errorf("plan route: %w", err)
	}

	if originID < 1 || originID > n {
		return domain.Route{}, fmt.Errorf(
			"plan route: origin %d outside [1,%d]: %w",
			originID, n, domain.ErrOutOfRangeDistrict,
		)
	}
	origin := originID - 1

	key := RouteKey(m, origin)
	if s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.RouteCacheLookups.WithLabelValues("error").Inc()
			logrus.WithField("req_id", obs.RequestID(ctx)).WithError(err).Warn("route cache read failed")
		case ok:
			metrics.RouteCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.RouteCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	start := time.Now()
	route, err := FindRoute(m, origin)
	metrics.RouteSolveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.Route{}, fmt.Errorf("plan route: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, key, route); err != nil {
			logrus.WithField("req_id", obs.RequestID(ctx)).WithError(err).Warn("route cache write failed")
		}
	}

	return route, nil
}

func (s *ChargingService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// changedVehicles returns the truck plus every vehicle that was charged.
func changedVehicles(fleet []*domain.Vehicle, truck *domain.Vehicle, charged []int) []*domain.Vehicle {
	ids := make(map[int]struct{}, len(charged))
	for _, id := range charged {
		ids[id] = struct{}{}
	}

	out := []*domain.Vehicle{truck}
	for _, v := range fleet {
		if _, ok := ids[v.ID]; ok {
			out = append(out, v)
		}
	}
	return out
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, domain.ErrMissingTruck):
		return "missing_truck"
	case errors.Is(err, domain.ErrOutOfRangeDistrict), errors.Is(err, domain.ErrInvalidDistance):
		return "invalid_input"
	case errors.Is(err, domain.ErrInvalidMatrix):
		return "no_districts"
	}
	return "error"
}
