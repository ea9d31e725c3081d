package repositories

import (
	"context"
	"time"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// ReservationRepository defines the interface for reservation data operations
type ReservationRepository interface {
	// Create persists a new reservation
	Create(ctx context.Context, reservation *entities.Reservation) error

	// GetByID retrieves a reservation by ID
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)

	// List retrieves reservations matching the filter
	List(ctx context.Context, filter ReservationFilter) ([]*entities.Reservation, error)

	// ListDetailed retrieves reservations joined with user, car and
	// parking data, restricted to those whose end time falls after the
	// given cutoff. The notifier uses this as its working set.
	ListDetailed(ctx context.Context, endedAfter time.Time) ([]*entities.DetailedReservation, error)

	// MarkPaid conditionally sets is_paid. It reports whether a row was
	// updated; false means the reservation was missing, already paid, or
	// cancelled (when requireOpen is set).
	MarkPaid(ctx context.Context, id string, requireOpen bool) (bool, error)

	// MarkCancelled conditionally sets is_cancelled on a reservation
	// that is not yet cancelled, reporting whether a row was updated.
	MarkCancelled(ctx context.Context, id string) (bool, error)

	// MarkStartNotified flips the start-reminder flag if it is unset,
	// reporting whether this call won the flip.
	MarkStartNotified(ctx context.Context, id string) (bool, error)

	// MarkEndNotified flips the end-reminder flag if it is unset.
	MarkEndNotified(ctx context.Context, id string) (bool, error)

	// MarkOverdueCharged flips is_overdue and is_overdue_charged if the
	// reservation has not been charged yet.
	MarkOverdueCharged(ctx context.Context, id string) (bool, error)

	// Delete removes a reservation permanently
	Delete(ctx context.Context, id string) error
}

// ReservationFilter narrows reservation listings. Zero values mean the
// dimension is not filtered.
type ReservationFilter struct {
	UserID         string
	CarID          string
	ParkingSpaceID string

	// StartsAtOrAfter and EndsAtOrBefore select fully contained
	// intervals: start_time >= StartsAtOrAfter AND end_time <=
	// EndsAtOrBefore.
	StartsAtOrAfter *time.Time
	EndsAtOrBefore  *time.Time

	// EndsAfter selects reservations still running or upcoming at the
	// given instant (end_time > EndsAfter).
	EndsAfter *time.Time
}
