package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

// minCardNumberLength is the only card validation performed. Payment
// processing is simulated, nothing is charged.
const minCardNumberLength = 12

// ReservationService handles reservation booking, payment and
// cancellation. Soft failures (missing or terminal-state reservations)
// come back as (false, nil); broken input comes back as a validation
// error.
type ReservationService struct {
	repo      repositories.ReservationRepository
	auditRepo repositories.AuditLogRepository
}

// NewReservationService creates a new reservation service
func NewReservationService(
	repo repositories.ReservationRepository,
	auditRepo repositories.AuditLogRepository,
) *ReservationService {
	return &ReservationService{
		repo:      repo,
		auditRepo: auditRepo,
	}
}

// Create books a new reservation. The interval is validated once here
// and never revalidated afterwards.
func (s *ReservationService) Create(ctx context.Context, reservation *entities.Reservation) error {
	if !reservation.StartTime.Before(reservation.EndTime) {
		return apperrors.NewValidationError("start time must be before end time")
	}

	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	now := time.Now()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	if err := s.repo.Create(ctx, reservation); err != nil {
		return err
	}

	log.Info().Str("reservation_id", reservation.ID).
		Time("start", reservation.StartTime).Time("end", reservation.EndTime).
		Msg("reservation created")
	return nil
}

// GetByID retrieves a reservation by ID
func (s *ReservationService) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// GetAll retrieves all reservations
func (s *ReservationService) GetAll(ctx context.Context) ([]*entities.Reservation, error) {
	return s.repo.List(ctx, repositories.ReservationFilter{})
}

// GetByUserID retrieves a user's reservations
func (s *ReservationService) GetByUserID(ctx context.Context, userID string) ([]*entities.Reservation, error) {
	return s.repo.List(ctx, repositories.ReservationFilter{UserID: userID})
}

// GetByCarID retrieves a car's reservations
func (s *ReservationService) GetByCarID(ctx context.Context, carID string) ([]*entities.Reservation, error) {
	return s.repo.List(ctx, repositories.ReservationFilter{CarID: carID})
}

// GetByParkingSpaceID retrieves a parking space's reservations
func (s *ReservationService) GetByParkingSpaceID(ctx context.Context, spaceID string) ([]*entities.Reservation, error) {
	return s.repo.List(ctx, repositories.ReservationFilter{ParkingSpaceID: spaceID})
}

// GetByDateRange retrieves reservations fully contained in [start, end]
func (s *ReservationService) GetByDateRange(ctx context.Context, start, end time.Time) ([]*entities.Reservation, error) {
	return s.repo.List(ctx, repositories.ReservationFilter{
		StartsAtOrAfter: &start,
		EndsAtOrBefore:  &end,
	})
}

// GetUpcomingByUserID retrieves a user's reservations that are still
// running or have not started yet
func (s *ReservationService) GetUpcomingByUserID(ctx context.Context, userID string) ([]*entities.Reservation, error) {
	now := time.Now()
	return s.repo.List(ctx, repositories.ReservationFilter{
		UserID:    userID,
		EndsAfter: &now,
	})
}

// MarkAsPaid flags a reservation as paid without any payment details.
// It reports false when the reservation does not exist. Cancellation
// state is deliberately not checked here; PayForReservation is the
// guarded path.
func (s *ReservationService) MarkAsPaid(ctx context.Context, id string) (bool, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if _, err := s.repo.MarkPaid(ctx, id, false); err != nil {
		return false, err
	}
	return true, nil
}

// PayForReservation processes a simulated card payment. It reports
// false when the reservation is missing, already paid or cancelled,
// and returns a validation error on an implausible card number.
func (s *ReservationService) PayForReservation(ctx context.Context, payment *entities.ReservationPayment) (bool, error) {
	reservation, err := s.repo.GetByID(ctx, payment.ReservationID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if reservation.IsPaid || reservation.IsCancelled {
		return false, nil
	}

	if len(payment.CardNumber) < minCardNumberLength {
		return false, apperrors.NewValidationError("card number is too short")
	}

	paid, err := s.repo.MarkPaid(ctx, payment.ReservationID, true)
	if err != nil {
		return false, err
	}
	if !paid {
		// A concurrent payment or cancellation won the update.
		return false, nil
	}

	s.audit(ctx, entities.AuditActionPayment, "Reservation", reservation.UserID,
		fmt.Sprintf("reservation %s paid with card ending %s",
			reservation.ID, payment.MaskedCardSuffix()))

	log.Info().Str("reservation_id", reservation.ID).Msg("reservation paid")
	return true, nil
}

// CancelReservation cancels a reservation before it starts. It reports
// false when the reservation is missing or already cancelled, and
// returns a validation error once the start time has passed.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) (bool, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if reservation.IsCancelled {
		return false, nil
	}

	if !time.Now().Before(reservation.StartTime) {
		return false, apperrors.NewValidationError("reservation has already started")
	}

	cancelled, err := s.repo.MarkCancelled(ctx, id)
	if err != nil {
		return false, err
	}
	if !cancelled {
		return false, nil
	}

	s.audit(ctx, entities.AuditActionCancellation, "Reservation", reservation.UserID,
		fmt.Sprintf("reservation %s cancelled", reservation.ID))

	log.Info().Str("reservation_id", reservation.ID).Msg("reservation cancelled")
	return true, nil
}

// Delete removes a reservation permanently
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// audit appends an audit entry. The triggering operation has already
// been persisted, so a failed append is logged rather than unwinding it.
func (s *ReservationService) audit(ctx context.Context, action, entity, userID, description string) {
	entry := &entities.AuditLog{
		ID:          uuid.New().String(),
		Action:      action,
		Entity:      entity,
		Description: description,
		UserID:      userID,
		Timestamp:   time.Now(),
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to append audit entry")
	}
}
