package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/openlots/parking-reservation/internal/api/middleware"
	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// CarService defines the interface for car operations
type CarService interface {
	Create(ctx context.Context, actorID string, car *entities.Car) error
	GetByID(ctx context.Context, actorID, id string) (*entities.Car, error)
	GetByUserID(ctx context.Context, userID string) ([]*entities.Car, error)
	GetByPlate(ctx context.Context, plate string) (*entities.Car, error)
	Update(ctx context.Context, actorID string, car *entities.Car) error
	Delete(ctx context.Context, actorID, id string) error
	DeletePermanent(ctx context.Context, actorID, id string) error
}

// CarHandler handles car requests
type CarHandler struct {
	service CarService
}

// NewCarHandler creates a new car handler
func NewCarHandler(service CarService) *CarHandler {
	return &CarHandler{
		service: service,
	}
}

func actorID(r *http.Request) string {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

// CreateCar handles POST /api/cars
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var car entities.Car
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	actor := actorID(r)
	if car.UserID == "" {
		car.UserID = actor
	}

	if err := h.service.Create(r.Context(), actor, &car); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, car)
}

// GetCar handles GET /api/cars/{id}
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "car ID is required")
		return
	}

	car, err := h.service.GetByID(r.Context(), actorID(r), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, car)
}

// ListCars handles GET /api/cars, scoped to the authenticated user
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.service.GetByUserID(r.Context(), actorID(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, cars)
}

// GetCarByPlate handles GET /api/cars/plate/{plate}
func (h *CarHandler) GetCarByPlate(w http.ResponseWriter, r *http.Request) {
	plate := r.PathValue("plate")
	if plate == "" {
		respondWithError(w, http.StatusBadRequest, "licence plate is required")
		return
	}

	car, err := h.service.GetByPlate(r.Context(), plate)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, car)
}

// UpdateCar handles PUT /api/cars/{id}
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "car ID is required")
		return
	}

	var car entities.Car
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	car.ID = id

	if err := h.service.Update(r.Context(), actorID(r), &car); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, car)
}

// DeleteCar handles DELETE /api/cars/{id}
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "car ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), actorID(r), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCarPermanent handles DELETE /api/cars/{id}/permanent
func (h *CarHandler) DeleteCarPermanent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "car ID is required")
		return
	}

	if err := h.service.DeletePermanent(r.Context(), actorID(r), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
