package api

import (
	"encoding/json"
	"fleet-charging-service/internal/adapters/repositories"
	"fleet-charging-service/internal/api/dto"
	platformdb "fleet-charging-service/internal/platform/db"
	"fleet-charging-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// triangleSeed has three districts one unit apart in both directions, a truck at
// district 1 with capacity 10 and two low-battery vehicles of weight 6.
func triangleSeed() repositories.FleetSeed {
	seed := repositories.FleetSeed{
		Districts: []repositories.DistrictSeed{
			{ID: 1, Name: "Braga", Geocode: "41.55,-8.42"},
			{ID: 2, Name: "Barcelos", Geocode: "41.53,-8.61"},
			{ID: 3, Name: "Guimaraes", Geocode: "41.44,-8.29"},
		},
		Vehicles: []repositories.VehicleSeed{
			{ID: 1, Kind: "scooter", BatteryLevel: 20, VehicleWeight: 6, LocationID: 2},
			{ID: 2, Kind: "bicycle", BatteryLevel: 10, VehicleWeight: 6, LocationID: 3},
			{ID: 3, Kind: "truck", BatteryLevel: 90, VehicleWeight: 3000, MaxTransportWeight: 10, LocationID: 1},
		},
	}
	for i := 1; i <= 3; i++ {
		for j := 1; j <= 3; j++ {
			if i != j {
				seed.Edges = append(seed.Edges, repositories.EdgeSeed{OriginID: i, DestinationID: j, Distance: 1})
			}
		}
	}
	return seed
}

func newTestServer(t *testing.T, seed repositories.FleetSeed, limiter *rate.Limiter) http.Handler {
	t.Helper()

	db, err := platformdb.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repositories.InitSchema(db))
	require.NoError(t, repositories.Seed(db, repositories.DialectSQLite, seed))

	repo := repositories.NewSQLFleetRepository(db, repositories.DialectSQLite)
	svc := services.NewChargingService(repo, nil, nil)

	return NewRouter(Deps{Service: svc, Repo: repo, DefaultOrigin: 1, RunLimiter: limiter})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, triangleSeed(), nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestServer(t, triangleSeed(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestDistrictEndpoints(t *testing.T) {
	h := newTestServer(t, triangleSeed(), nil)

	rec := do(t, h, http.MethodGet, "/districts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[dto.ListDistrictsResponse](t, rec)
	require.Len(t, list.Districts, 3)
	assert.Equal(t, "Braga", list.Districts[0].Name)

	rec = do(t, h, http.MethodGet, "/districts/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Barcelos", decode[dto.DistrictResponse](t, rec).Name)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/districts/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/districts/abc", "").Code)
}

func TestEdgeAndVehicleEndpoints(t *testing.T) {
	h := newTestServer(t, triangleSeed(), nil)

	rec := do(t, h, http.MethodGet, "/edges", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.ListEdgesResponse](t, rec).Edges, 6)

	rec = do(t, h, http.MethodGet, "/vehicles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	vehicles := decode[dto.ListVehiclesResponse](t, rec).Vehicles
	require.Len(t, vehicles, 3)
	assert.Equal(t, "truck", vehicles[2].Kind)
	assert.Equal(t, 10, vehicles[2].MaxTransportWeight)
}

func TestPreviewRoute(t *testing.T) {
	h := newTestServer(t, triangleSeed(), nil)

	rec := do(t, h, http.MethodPost, "/routes", `{"origin_id":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	route := decode[dto.RouteResponse](t, rec)
	assert.Equal(t, 3, route.Cost)
	assert.Equal(t, []int{2, 3, 1}, route.DistrictIDs)

	// Empty body falls back to the default origin.
	rec = do(t, h, http.MethodPost, "/routes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1, 2, 3}, decode[dto.RouteResponse](t, rec).DistrictIDs)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/routes", `{"origin_id":9}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/routes", `{"origin":1}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/routes", "").Code)
}

func TestChargingRunLifecycle(t *testing.T) {
	h := newTestServer(t, triangleSeed(), nil)

	rec := do(t, h, http.MethodPost, "/charging-runs", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run := decode[dto.ChargingRunResponse](t, rec)
	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, 3, run.TruckID)
	assert.Equal(t, []int{1, 2, 3}, run.Route.DistrictIDs)
	assert.Equal(t, []int{1}, run.ChargedVehicleIDs)
	assert.Equal(t, 4, run.RemainingCapacity)

	// The new states are persisted; the second vehicle still does not fit.
	rec = do(t, h, http.MethodGet, "/vehicles", "")
	vehicles := decode[dto.ListVehiclesResponse](t, rec).Vehicles
	assert.Equal(t, 100.0, vehicles[0].BatteryLevel)
	assert.Equal(t, 10.0, vehicles[1].BatteryLevel)
	assert.Equal(t, 4, vehicles[2].MaxTransportWeight)
	assert.Equal(t, 1, vehicles[2].LocationID)

	rec = do(t, h, http.MethodGet, "/charging-runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[dto.ListChargingRunsResponse](t, rec).Runs
	require.Len(t, runs, 1)
	assert.Equal(t, run.RunID, runs[0].RunID)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/charging-runs?limit=0", "").Code)
}

func TestChargingRunErrors(t *testing.T) {
	t.Run("infeasible", func(t *testing.T) {
		seed := triangleSeed()
		seed.Edges = []repositories.EdgeSeed{{OriginID: 1, DestinationID: 2, Distance: 1}}
		h := newTestServer(t, seed, nil)

		rec := do(t, h, http.MethodPost, "/charging-runs", `{"origin_id":1}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing truck", func(t *testing.T) {
		seed := triangleSeed()
		seed.Vehicles = seed.Vehicles[:2]
		h := newTestServer(t, seed, nil)

		rec := do(t, h, http.MethodPost, "/charging-runs", `{"origin_id":1}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("origin out of range", func(t *testing.T) {
		h := newTestServer(t, triangleSeed(), nil)

		rec := do(t, h, http.MethodPost, "/charging-runs", `{"origin_id":4}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no districts", func(t *testing.T) {
		seed := triangleSeed()
		seed.Districts = nil
		seed.Edges = nil
		h := newTestServer(t, seed, nil)

		for _, path := range []string{"/charging-runs", "/routes"} {
			rec := do(t, h, http.MethodPost, path, `{"origin_id":1}`)
			assert.Equal(t, http.StatusConflict, rec.Code, path)
			assert.Contains(t, rec.Body.String(), "no districts configured", path)
		}

		// Nothing was charged.
		rec := do(t, h, http.MethodGet, "/vehicles", "")
		require.Equal(t, http.StatusOK, rec.Code)
		vehicles := decode[dto.ListVehiclesResponse](t, rec)
		require.NotEmpty(t, vehicles.Vehicles)
		assert.Equal(t, 20.0, vehicles.Vehicles[0].BatteryLevel)
	})
}

func TestChargingRunRateLimit(t *testing.T) {
	h := newTestServer(t, triangleSeed(), rate.NewLimiter(rate.Limit(0.001), 1))

	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/charging-runs", `{}`).Code)

	rec := do(t, h, http.MethodPost, "/charging-runs", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Reads are not throttled.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/charging-runs", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, triangleSeed(), nil)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
