package routes

import (
	"net/http"

	"github.com/openlots/parking-reservation/internal/api/handlers"
	"github.com/openlots/parking-reservation/internal/api/middleware"
	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	userHandler         *handlers.UserHandler
	carHandler          *handlers.CarHandler
	parkingHandler      *handlers.ParkingHandler
	parkingSpaceHandler *handlers.ParkingSpaceHandler
	reservationHandler  *handlers.ReservationHandler
	auditLogHandler     *handlers.AuditLogHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
	jwtSecret       string
	allowedOrigins  []string
}

// NewRouter creates a new router
func NewRouter(
	userHandler *handlers.UserHandler,
	carHandler *handlers.CarHandler,
	parkingHandler *handlers.ParkingHandler,
	parkingSpaceHandler *handlers.ParkingSpaceHandler,
	reservationHandler *handlers.ReservationHandler,
	auditLogHandler *handlers.AuditLogHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	jwtSecret string,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		userHandler:         userHandler,
		carHandler:          carHandler,
		parkingHandler:      parkingHandler,
		parkingSpaceHandler: parkingSpaceHandler,
		reservationHandler:  reservationHandler,
		auditLogHandler:     auditLogHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
		jwtSecret:       jwtSecret,
		allowedOrigins:  allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	auth := middleware.AuthMiddleware(r.jwtSecret)
	admin := func(h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireRole(entities.RoleAdmin)(h))
	}
	operator := func(h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireRole(entities.RoleAdmin, entities.RoleManager)(h))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Account endpoints
	r.mux.HandleFunc("POST /api/users/register", r.userHandler.Register)
	r.mux.HandleFunc("POST /api/users/login", r.userHandler.Login)
	r.mux.Handle("GET /api/users", admin(r.userHandler.ListUsers))
	r.mux.Handle("GET /api/users/{id}", admin(r.userHandler.GetUser))
	r.mux.Handle("DELETE /api/users/{id}", admin(r.userHandler.DeleteUser))

	// Car endpoints
	r.mux.Handle("GET /api/cars", protected(r.carHandler.ListCars))
	r.mux.Handle("POST /api/cars", protected(r.carHandler.CreateCar))
	r.mux.Handle("GET /api/cars/plate/{plate}", operator(r.carHandler.GetCarByPlate))
	r.mux.Handle("GET /api/cars/{id}", protected(r.carHandler.GetCar))
	r.mux.Handle("PUT /api/cars/{id}", protected(r.carHandler.UpdateCar))
	r.mux.Handle("DELETE /api/cars/{id}", protected(r.carHandler.DeleteCar))
	r.mux.Handle("DELETE /api/cars/{id}/permanent", protected(r.carHandler.DeleteCarPermanent))

	// Parking facility endpoints
	r.mux.HandleFunc("GET /api/parkings", r.parkingHandler.ListParkings)
	r.mux.HandleFunc("GET /api/parkings/area/{area}", r.parkingHandler.GetParkingsByArea)
	r.mux.HandleFunc("GET /api/parkings/{id}", r.parkingHandler.GetParking)
	r.mux.HandleFunc("GET /api/parkings/{id}/spaces", r.parkingSpaceHandler.GetSpacesByParking)
	r.mux.Handle("POST /api/parkings", operator(r.parkingHandler.CreateParking))
	r.mux.Handle("DELETE /api/parkings/{id}", operator(r.parkingHandler.DeleteParking))

	// Parking space endpoints
	r.mux.HandleFunc("GET /api/parking-spaces", r.parkingSpaceHandler.ListParkingSpaces)
	r.mux.HandleFunc("GET /api/parking-spaces/{id}", r.parkingSpaceHandler.GetParkingSpace)
	r.mux.Handle("POST /api/parking-spaces", operator(r.parkingSpaceHandler.CreateParkingSpace))
	r.mux.Handle("DELETE /api/parking-spaces/{id}", operator(r.parkingSpaceHandler.DeleteParkingSpace))

	// Reservation endpoints
	r.mux.Handle("GET /api/reservations", protected(r.reservationHandler.ListReservations))
	r.mux.Handle("POST /api/reservations", protected(r.reservationHandler.CreateReservation))
	r.mux.Handle("GET /api/reservations/range", protected(r.reservationHandler.GetReservationsByRange))
	r.mux.Handle("GET /api/reservations/user/{userId}", protected(r.reservationHandler.GetReservationsByUser))
	r.mux.Handle("GET /api/reservations/active/user/{userId}", protected(r.reservationHandler.GetActiveReservationsByUser))
	r.mux.Handle("GET /api/reservations/car/{carId}", protected(r.reservationHandler.GetReservationsByCar))
	r.mux.Handle("GET /api/reservations/space/{spaceId}", protected(r.reservationHandler.GetReservationsBySpace))
	r.mux.Handle("GET /api/reservations/{id}", protected(r.reservationHandler.GetReservation))
	r.mux.Handle("DELETE /api/reservations/{id}", protected(r.reservationHandler.DeleteReservation))
	r.mux.Handle("PUT /api/reservations/{id}/pay", protected(r.reservationHandler.MarkReservationPaid))
	r.mux.Handle("POST /api/reservations/{id}/payment", protected(r.reservationHandler.PayForReservation))
	r.mux.Handle("POST /api/reservations/{id}/cancel", protected(r.reservationHandler.CancelReservation))

	// Audit trail endpoint
	r.mux.Handle("GET /api/audit-logs", admin(r.auditLogHandler.ListAuditLogs))

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
