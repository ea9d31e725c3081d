package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// ParkingSpaceService defines the interface for parking space operations
type ParkingSpaceService interface {
	GetAll(ctx context.Context) ([]*entities.ParkingSpace, error)
	GetByID(ctx context.Context, id string) (*entities.ParkingSpace, error)
	GetByParkingID(ctx context.Context, parkingID string) ([]*entities.ParkingSpace, error)
	Create(ctx context.Context, space *entities.ParkingSpace) error
	Delete(ctx context.Context, id string) error
}

// ParkingSpaceHandler handles parking space requests
type ParkingSpaceHandler struct {
	service ParkingSpaceService
}

// NewParkingSpaceHandler creates a new parking space handler
func NewParkingSpaceHandler(service ParkingSpaceService) *ParkingSpaceHandler {
	return &ParkingSpaceHandler{
		service: service,
	}
}

// ListParkingSpaces handles GET /api/parking-spaces
func (h *ParkingSpaceHandler) ListParkingSpaces(w http.ResponseWriter, r *http.Request) {
	spaces, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, spaces)
}

// GetParkingSpace handles GET /api/parking-spaces/{id}
func (h *ParkingSpaceHandler) GetParkingSpace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "parking space ID is required")
		return
	}

	space, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, space)
}

// GetSpacesByParking handles GET /api/parkings/{id}/spaces
func (h *ParkingSpaceHandler) GetSpacesByParking(w http.ResponseWriter, r *http.Request) {
	parkingID := r.PathValue("id")
	if parkingID == "" {
		respondWithError(w, http.StatusBadRequest, "parking ID is required")
		return
	}

	spaces, err := h.service.GetByParkingID(r.Context(), parkingID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, spaces)
}

// CreateParkingSpace handles POST /api/parking-spaces
func (h *ParkingSpaceHandler) CreateParkingSpace(w http.ResponseWriter, r *http.Request) {
	var space entities.ParkingSpace
	if err := json.NewDecoder(r.Body).Decode(&space); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.Create(r.Context(), &space); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, space)
}

// DeleteParkingSpace handles DELETE /api/parking-spaces/{id}
func (h *ParkingSpaceHandler) DeleteParkingSpace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "parking space ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
