package handlers

import (
	"fleet-charging-service/internal/api/dto"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/ports"
	"net/http"
	"strconv"

	"github.com/samber/lo"
)

// FleetHandler exposes read-only registry endpoints.
type FleetHandler struct {
	Repo ports.FleetRepository
}

func (h *FleetHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	districts, err := h.Repo.ListDistricts(r.Context())
	if err != nil {
		writeDomainError(w, r, "list districts", err)
		return
	}

	res := dto.ListDistrictsResponse{
		Districts: lo.Map(districts, func(d domain.District, _ int) dto.DistrictResponse {
			return toDistrictResponse(d)
		}),
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *FleetHandler) GetDistrict(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "district id must be a positive integer")
		return
	}

	d, err := h.Repo.GetDistrict(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "get district", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toDistrictResponse(d))
}

func (h *FleetHandler) ListEdges(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	edges, err := h.Repo.ListEdges(r.Context())
	if err != nil {
		writeDomainError(w, r, "list edges", err)
		return
	}

	res := dto.ListEdgesResponse{
		Edges: lo.Map(edges, func(e domain.Edge, _ int) dto.EdgeResponse {
			return dto.EdgeResponse{OriginID: e.OriginID, DestinationID: e.DestinationID, Distance: e.Distance}
		}),
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *FleetHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	vehicles, err := h.Repo.ListVehicles(r.Context())
	if err != nil {
		writeDomainError(w, r, "list vehicles", err)
		return
	}

	res := dto.ListVehiclesResponse{
		Vehicles: lo.Map(vehicles, func(v *domain.Vehicle, _ int) dto.VehicleResponse {
			return dto.VehicleResponse{
				ID:                 v.ID,
				Kind:               string(v.Kind),
				BatteryLevel:       v.BatteryLevel,
				Cost:               v.Cost,
				BatteryCapacity:    v.BatteryCapacity,
				EnergyCostPerKm:    v.EnergyCostPerKm,
				VehicleWeight:      v.VehicleWeight,
				MaxTransportWeight: v.MaxTransportWeight,
				LocationID:         v.LocationID,
			}
		}),
	}
	writeJSON(w, r, http.StatusOK, res)
}

func toDistrictResponse(d domain.District) dto.DistrictResponse {
	return dto.DistrictResponse{ID: d.ID, Name: d.Name, Geocode: d.Geocode}
}
