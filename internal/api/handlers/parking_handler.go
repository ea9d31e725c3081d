package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// ParkingService defines the interface for parking facility operations
type ParkingService interface {
	GetAll(ctx context.Context) ([]*entities.Parking, error)
	GetByID(ctx context.Context, id string) (*entities.Parking, error)
	GetByArea(ctx context.Context, area string) ([]*entities.Parking, error)
	Create(ctx context.Context, parking *entities.Parking) error
	Delete(ctx context.Context, id string) error
}

// ParkingHandler handles parking facility requests
type ParkingHandler struct {
	service ParkingService
}

// NewParkingHandler creates a new parking handler
func NewParkingHandler(service ParkingService) *ParkingHandler {
	return &ParkingHandler{
		service: service,
	}
}

// ListParkings handles GET /api/parkings
func (h *ParkingHandler) ListParkings(w http.ResponseWriter, r *http.Request) {
	parkings, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, parkings)
}

// GetParking handles GET /api/parkings/{id}
func (h *ParkingHandler) GetParking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "parking ID is required")
		return
	}

	parking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, parking)
}

// GetParkingsByArea handles GET /api/parkings/area/{area}
func (h *ParkingHandler) GetParkingsByArea(w http.ResponseWriter, r *http.Request) {
	area := r.PathValue("area")
	if area == "" {
		respondWithError(w, http.StatusBadRequest, "area is required")
		return
	}

	parkings, err := h.service.GetByArea(r.Context(), area)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, parkings)
}

// CreateParking handles POST /api/parkings
func (h *ParkingHandler) CreateParking(w http.ResponseWriter, r *http.Request) {
	var parking entities.Parking
	if err := json.NewDecoder(r.Body).Decode(&parking); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.Create(r.Context(), &parking); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, parking)
}

// DeleteParking handles DELETE /api/parkings/{id}
func (h *ParkingHandler) DeleteParking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "parking ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
