package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// ChargingRuns counts runs by outcome (ok, infeasible, missing_truck, error).
	ChargingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "charging_runs_total", Help: "Charging runs by outcome."},
		[]string{"outcome"},
	)
	VehiclesCharged = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "vehicles_charged_total", Help: "Vehicles recharged by the truck."},
	)
	RouteSolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_solve_duration_seconds", Help: "Exact tour search duration in seconds.", Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10)},
	)
	RouteCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_cache_lookups_total", Help: "Route cache lookups by result (hit, miss, error)."},
		[]string{"result"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(ChargingRuns)
		Registry.MustRegister(VehiclesCharged)
		Registry.MustRegister(RouteSolveDuration)
		Registry.MustRegister(RouteCacheLookups)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
