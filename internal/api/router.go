package api

import (
	"fleet-charging-service/internal/api/handlers"
	"fleet-charging-service/internal/platform/metrics"
	"fleet-charging-service/internal/ports"
	"fleet-charging-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps groups what the router needs from the composition root.
type Deps struct {
	Service       *services.ChargingService
	Repo          ports.FleetRepository
	DefaultOrigin int
	// RunLimiter throttles POST /charging-runs. Nil disables throttling.
	RunLimiter *rate.Limiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	fleetHandler := &handlers.FleetHandler{Repo: deps.Repo}
	chargingHandler := &handlers.ChargingHandler{
		Service:       deps.Service,
		Repo:          deps.Repo,
		DefaultOrigin: deps.DefaultOrigin,
	}

	runs := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			chargingHandler.ListRuns(w, r)
			return
		}
		chargingHandler.StartRun(w, r)
	})

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/districts", fleetHandler.ListDistricts)
	mux.HandleFunc("/districts/{id}", fleetHandler.GetDistrict)
	mux.HandleFunc("/edges", fleetHandler.ListEdges)
	mux.HandleFunc("/vehicles", fleetHandler.ListVehicles)
	mux.HandleFunc("/routes", chargingHandler.PreviewRoute)
	mux.Handle("/charging-runs", rateLimit(deps.RunLimiter, http.MethodPost, runs))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
