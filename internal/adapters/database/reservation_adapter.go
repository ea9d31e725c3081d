package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
	"github.com/openlots/parking-reservation/internal/infrastructure/clients/postgres"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

var reservationColumns = []any{
	"id", "user_id", "car_id", "parking_space_id",
	"start_time", "end_time",
	"is_paid", "is_cancelled",
	"is_start_notified", "is_end_notified", "is_overdue", "is_overdue_charged",
	"created_at", "updated_at",
}

// ReservationAdapter implements the ReservationRepository interface
type ReservationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new reservation
func (a *ReservationAdapter) Create(ctx context.Context, reservation *entities.Reservation) error {
	record := goqu.Record{
		"id":                 reservation.ID,
		"user_id":            reservation.UserID,
		"car_id":             reservation.CarID,
		"parking_space_id":   reservation.ParkingSpaceID,
		"start_time":         reservation.StartTime,
		"end_time":           reservation.EndTime,
		"is_paid":            reservation.IsPaid,
		"is_cancelled":       reservation.IsCancelled,
		"is_start_notified":  reservation.IsStartNotified,
		"is_end_notified":    reservation.IsEndNotified,
		"is_overdue":         reservation.IsOverdue,
		"is_overdue_charged": reservation.IsOverdueCharged,
		"created_at":         reservation.CreatedAt,
		"updated_at":         reservation.UpdatedAt,
	}

	query, args, err := a.db.Insert("reservations").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create reservation", err)
	}

	return nil
}

// GetByID retrieves a reservation by ID
func (a *ReservationAdapter) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservation := &entities.Reservation{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.CarID,
		&reservation.ParkingSpaceID,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.IsPaid,
		&reservation.IsCancelled,
		&reservation.IsStartNotified,
		&reservation.IsEndNotified,
		&reservation.IsOverdue,
		&reservation.IsOverdueCharged,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}

	return reservation, nil
}

// List retrieves reservations matching the filter
func (a *ReservationAdapter) List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error) {
	ds := a.db.Select(reservationColumns...).From("reservations")

	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": filter.UserID})
	}
	if filter.CarID != "" {
		ds = ds.Where(goqu.Ex{"car_id": filter.CarID})
	}
	if filter.ParkingSpaceID != "" {
		ds = ds.Where(goqu.Ex{"parking_space_id": filter.ParkingSpaceID})
	}
	if filter.StartsAtOrAfter != nil {
		ds = ds.Where(goqu.C("start_time").Gte(*filter.StartsAtOrAfter))
	}
	if filter.EndsAtOrBefore != nil {
		ds = ds.Where(goqu.C("end_time").Lte(*filter.EndsAtOrBefore))
	}
	if filter.EndsAfter != nil {
		ds = ds.Where(goqu.C("end_time").Gt(*filter.EndsAfter))
	}

	ds = ds.Order(goqu.I("start_time").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}
	defer rows.Close()

	var reservations []*entities.Reservation
	for rows.Next() {
		reservation := &entities.Reservation{}
		err := rows.Scan(
			&reservation.ID,
			&reservation.UserID,
			&reservation.CarID,
			&reservation.ParkingSpaceID,
			&reservation.StartTime,
			&reservation.EndTime,
			&reservation.IsPaid,
			&reservation.IsCancelled,
			&reservation.IsStartNotified,
			&reservation.IsEndNotified,
			&reservation.IsOverdue,
			&reservation.IsOverdueCharged,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan reservation", err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, nil
}

// ListDetailed retrieves reservations joined with user, car and parking
// data, restricted to those ending after the cutoff
func (a *ReservationAdapter) ListDetailed(ctx context.Context, endedAfter time.Time) ([]*entities.DetailedReservation, error) {
	query, args, err := a.db.Select(
		goqu.I("r.id"), goqu.I("r.user_id"), goqu.I("r.car_id"), goqu.I("r.parking_space_id"),
		goqu.I("r.start_time"), goqu.I("r.end_time"),
		goqu.I("r.is_paid"), goqu.I("r.is_cancelled"),
		goqu.I("r.is_start_notified"), goqu.I("r.is_end_notified"),
		goqu.I("r.is_overdue"), goqu.I("r.is_overdue_charged"),
		goqu.I("r.created_at"), goqu.I("r.updated_at"),
		goqu.I("u.email").As("user_email"),
		goqu.I("u.first_name").As("user_first_name"),
		goqu.I("c.licence_plate"),
		goqu.I("p.name").As("parking_name"),
		goqu.I("s.space_number"),
	).From(goqu.T("reservations").As("r")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("r.user_id")})).
		Join(goqu.T("cars").As("c"), goqu.On(goqu.Ex{"c.id": goqu.I("r.car_id")})).
		Join(goqu.T("parking_spaces").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("r.parking_space_id")})).
		Join(goqu.T("parkings").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("s.parking_id")})).
		Where(goqu.I("r.end_time").Gt(endedAfter)).
		Order(goqu.I("r.start_time").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build detailed query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list detailed reservations", err)
	}
	defer rows.Close()

	var reservations []*entities.DetailedReservation
	for rows.Next() {
		r := &entities.DetailedReservation{}
		err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.CarID,
			&r.ParkingSpaceID,
			&r.StartTime,
			&r.EndTime,
			&r.IsPaid,
			&r.IsCancelled,
			&r.IsStartNotified,
			&r.IsEndNotified,
			&r.IsOverdue,
			&r.IsOverdueCharged,
			&r.CreatedAt,
			&r.UpdatedAt,
			&r.UserEmail,
			&r.UserFirstName,
			&r.LicencePlate,
			&r.ParkingName,
			&r.SpaceNumber,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan detailed reservation", err)
		}
		reservations = append(reservations, r)
	}

	return reservations, nil
}

// MarkPaid conditionally sets is_paid on an unpaid reservation
func (a *ReservationAdapter) MarkPaid(ctx context.Context, id string, requireOpen bool) (bool, error) {
	conditions := []goqu.Expression{
		goqu.Ex{"id": id},
		goqu.Ex{"is_paid": false},
	}
	if requireOpen {
		conditions = append(conditions, goqu.Ex{"is_cancelled": false})
	}

	return a.conditionalUpdate(ctx, "failed to mark reservation paid", goqu.Record{
		"is_paid":    true,
		"updated_at": time.Now(),
	}, conditions...)
}

// MarkCancelled conditionally sets is_cancelled on a reservation that
// is not yet cancelled
func (a *ReservationAdapter) MarkCancelled(ctx context.Context, id string) (bool, error) {
	return a.conditionalUpdate(ctx, "failed to cancel reservation", goqu.Record{
		"is_cancelled": true,
		"updated_at":   time.Now(),
	}, goqu.Ex{"id": id}, goqu.Ex{"is_cancelled": false})
}

// MarkStartNotified flips the start-reminder flag if it is unset
func (a *ReservationAdapter) MarkStartNotified(ctx context.Context, id string) (bool, error) {
	return a.conditionalUpdate(ctx, "failed to mark start notified", goqu.Record{
		"is_start_notified": true,
		"updated_at":        time.Now(),
	}, goqu.Ex{"id": id}, goqu.Ex{"is_start_notified": false})
}

// MarkEndNotified flips the end-reminder flag if it is unset
func (a *ReservationAdapter) MarkEndNotified(ctx context.Context, id string) (bool, error) {
	return a.conditionalUpdate(ctx, "failed to mark end notified", goqu.Record{
		"is_end_notified": true,
		"updated_at":      time.Now(),
	}, goqu.Ex{"id": id}, goqu.Ex{"is_end_notified": false})
}

// MarkOverdueCharged flips is_overdue and is_overdue_charged if the
// reservation has not been charged yet
func (a *ReservationAdapter) MarkOverdueCharged(ctx context.Context, id string) (bool, error) {
	return a.conditionalUpdate(ctx, "failed to mark overdue charged", goqu.Record{
		"is_overdue":         true,
		"is_overdue_charged": true,
		"updated_at":         time.Now(),
	}, goqu.Ex{"id": id}, goqu.Ex{"is_overdue_charged": false})
}

// Delete removes a reservation permanently
func (a *ReservationAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("reservations").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete reservation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}

	return nil
}

// conditionalUpdate applies record where all conditions hold and
// reports whether a row was updated. The guard conditions run inside
// the single UPDATE, so concurrent callers cannot both win.
func (a *ReservationAdapter) conditionalUpdate(ctx context.Context, errMsg string, record goqu.Record, conditions ...goqu.Expression) (bool, error) {
	query, args, err := a.db.Update("reservations").
		Set(record).
		Where(conditions...).
		ToSQL()

	if err != nil {
		return false, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError(errMsg, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to get rows affected", err)
	}

	return rowsAffected > 0, nil
}
