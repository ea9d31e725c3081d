package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// UserService defines the interface for account operations
type UserService interface {
	Register(ctx context.Context, email, firstName, lastName, password string) (*entities.User, error)
	Login(ctx context.Context, email, password string) (string, *entities.User, error)
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetAll(ctx context.Context) ([]*entities.User, error)
	Delete(ctx context.Context, id string) error
}

// CarInventoryService defines the car operations the account endpoints
// need: the admin detail view reports how many cars a user holds, and
// deleting an account retires its cars first.
type CarInventoryService interface {
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteAllByUser(ctx context.Context, userID string) error
}

// UserHandler handles account requests
type UserHandler struct {
	service UserService
	cars    CarInventoryService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService, cars CarInventoryService) *UserHandler {
	return &UserHandler{
		service: service,
		cars:    cars,
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	carCount, err := h.cars.CountByUser(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"car_count": carCount,
	})
}

// DeleteUser handles DELETE /api/users/{id}. The user's cars are
// soft-deleted before the account goes away.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	if err := h.cars.DeleteAllByUser(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
