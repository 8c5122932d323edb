package handlers

import (
	"fleet-charging-service/internal/api/dto"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/ports"
	"fleet-charging-service/internal/services"
	"net/http"
	"strconv"

	"github.com/samber/lo"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// ChargingHandler serves route previews and charging runs.
// DefaultOrigin is used when a request omits origin_id.
type ChargingHandler struct {
	Service       *services.ChargingService
	Repo          ports.FleetRepository
	DefaultOrigin int
}

// PreviewRoute solves the tour from the requested origin without charging.
func (h *ChargingHandler) PreviewRoute(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RouteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	origin := h.origin(req.OriginID)
	route, err := h.Service.Preview(r.Context(), origin)
	if err != nil {
		writeDomainError(w, r, "preview route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(origin, route))
}

// StartRun plans the tour and charges vehicles along it.
func (h *ChargingHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ChargingRunRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	run, err := h.Service.Run(r.Context(), services.RunRequest{OriginID: h.origin(req.OriginID)})
	if err != nil {
		writeDomainError(w, r, "charging run", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toRunResponse(run))
}

// ListRuns returns the most recent runs, newest first. ?limit= caps the result.
func (h *ChargingHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.Repo.ListRuns(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, "list runs", err)
		return
	}

	res := dto.ListChargingRunsResponse{
		Runs: lo.Map(runs, func(run domain.ChargingRun, _ int) dto.ChargingRunResponse {
			return toRunResponse(run)
		}),
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ChargingHandler) origin(requested int) int {
	if requested == 0 {
		return h.DefaultOrigin
	}
	return requested
}

func toRouteResponse(originID int, route domain.Route) dto.RouteResponse {
	return dto.RouteResponse{
		OriginID:    originID,
		Cost:        route.Cost,
		DistrictIDs: route.DistrictIDs(),
	}
}

func toRunResponse(run domain.ChargingRun) dto.ChargingRunResponse {
	charged := run.Charged
	if charged == nil {
		charged = []int{}
	}
	return dto.ChargingRunResponse{
		RunID:             run.ID,
		StartedAt:         run.StartedAt,
		Route:             toRouteResponse(run.OriginID, run.Route),
		TruckID:           run.TruckID,
		ChargedVehicleIDs: charged,
		RemainingCapacity: run.RemainingCapacity,
	}
}
