package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/openlots/parking-reservation/internal/api/middleware"
	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// ReservationService defines the interface for reservation operations
type ReservationService interface {
	Create(ctx context.Context, reservation *entities.Reservation) error
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)
	GetAll(ctx context.Context) ([]*entities.Reservation, error)
	GetByUserID(ctx context.Context, userID string) ([]*entities.Reservation, error)
	GetByCarID(ctx context.Context, carID string) ([]*entities.Reservation, error)
	GetByParkingSpaceID(ctx context.Context, spaceID string) ([]*entities.Reservation, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*entities.Reservation, error)
	GetUpcomingByUserID(ctx context.Context, userID string) ([]*entities.Reservation, error)
	MarkAsPaid(ctx context.Context, id string) (bool, error)
	PayForReservation(ctx context.Context, payment *entities.ReservationPayment) (bool, error)
	CancelReservation(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// ReservationHandler handles reservation requests
type ReservationHandler struct {
	service ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(service ReservationService) *ReservationHandler {
	return &ReservationHandler{
		service: service,
	}
}

// CreateReservation handles POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var reservation entities.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	// Default to the authenticated caller when the body omits the user
	if reservation.UserID == "" {
		if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
			reservation.UserID = userID
		}
	}

	if err := h.service.Create(r.Context(), &reservation); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, reservation)
}

// GetReservation handles GET /api/reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}

// ListReservations handles GET /api/reservations
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservations)
}

// GetReservationsByUser handles GET /api/reservations/user/{userId}
func (h *ReservationHandler) GetReservationsByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	reservations, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservations)
}

// GetActiveReservationsByUser handles GET /api/reservations/active/user/{userId}
func (h *ReservationHandler) GetActiveReservationsByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	reservations, err := h.service.GetUpcomingByUserID(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservations)
}

// GetReservationsByCar handles GET /api/reservations/car/{carId}
func (h *ReservationHandler) GetReservationsByCar(w http.ResponseWriter, r *http.Request) {
	carID := r.PathValue("carId")
	if carID == "" {
		respondWithError(w, http.StatusBadRequest, "car ID is required")
		return
	}

	reservations, err := h.service.GetByCarID(r.Context(), carID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservations)
}

// GetReservationsBySpace handles GET /api/reservations/space/{spaceId}
func (h *ReservationHandler) GetReservationsBySpace(w http.ResponseWriter, r *http.Request) {
	spaceID := r.PathValue("spaceId")
	if spaceID == "" {
		respondWithError(w, http.StatusBadRequest, "parking space ID is required")
		return
	}

	reservations, err := h.service.GetByParkingSpaceID(r.Context(), spaceID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservations)
}

// GetReservationsByRange handles GET /api/reservations/range
func (h *ReservationHandler) GetReservationsByRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		respondWithError(w, http.StatusBadRequest, "start and end query parameters are required")
		return
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid start date format (use RFC3339)")
		return
	}

	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid end date format (use RFC3339)")
		return
	}

	reservations, err := h.service.GetByDateRange(r.Context(), start, end)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservations)
}

// MarkReservationPaid handles PUT /api/reservations/{id}/pay
func (h *ReservationHandler) MarkReservationPaid(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	ok, err := h.service.MarkAsPaid(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !ok {
		respondWithError(w, http.StatusNotFound, "reservation not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"paid": true})
}

// PayForReservation handles POST /api/reservations/{id}/payment
func (h *ReservationHandler) PayForReservation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	var payment entities.ReservationPayment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	payment.ReservationID = id

	ok, err := h.service.PayForReservation(r.Context(), &payment)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !ok {
		respondWithError(w, http.StatusConflict, "reservation cannot be paid")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"paid": true})
}

// CancelReservation handles POST /api/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	ok, err := h.service.CancelReservation(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !ok {
		respondWithError(w, http.StatusConflict, "reservation cannot be cancelled")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// DeleteReservation handles DELETE /api/reservations/{id}
func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
