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

// CarService handles car registration and ownership checks. The acting
// user ID comes from the authenticated request; a user only sees and
// mutates their own cars.
type CarService struct {
	repo      repositories.CarRepository
	auditRepo repositories.AuditLogRepository
}

// NewCarService creates a new car service
func NewCarService(repo repositories.CarRepository, auditRepo repositories.AuditLogRepository) *CarService {
	return &CarService{
		repo:      repo,
		auditRepo: auditRepo,
	}
}

// Create registers a new car for the acting user. Licence plates are
// unique, including plates held by soft-deleted cars.
func (s *CarService) Create(ctx context.Context, actorID string, car *entities.Car) error {
	if car.UserID != actorID {
		return apperrors.NewUnauthorizedError("invalid user assignment")
	}

	exists, err := s.PlateExists(ctx, car.LicencePlate)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewConflictError("car already exists")
	}

	if car.ID == "" {
		car.ID = uuid.New().String()
	}
	now := time.Now()
	car.CreatedAt = now
	car.UpdatedAt = now

	if err := s.repo.Create(ctx, car); err != nil {
		return err
	}

	log.Info().Str("car_id", car.ID).Str("plate", car.LicencePlate).Msg("car registered")
	return nil
}

// GetByID retrieves one of the acting user's cars. Someone else's car
// comes back as not found rather than leaking its existence.
func (s *CarService) GetByID(ctx context.Context, actorID, id string) (*entities.Car, error) {
	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car.UserID != actorID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("car with id %s not found", id))
	}
	return car, nil
}

// GetByUserID retrieves a user's cars, excluding soft-deleted ones
func (s *CarService) GetByUserID(ctx context.Context, userID string) ([]*entities.Car, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetByPlate retrieves a car by licence plate
func (s *CarService) GetByPlate(ctx context.Context, plate string) (*entities.Car, error) {
	return s.repo.GetByPlate(ctx, plate)
}

// PlateExists reports whether a licence plate is already registered
func (s *CarService) PlateExists(ctx context.Context, plate string) (bool, error) {
	_, err := s.repo.GetByPlate(ctx, plate)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountByUser returns how many cars a user has registered
func (s *CarService) CountByUser(ctx context.Context, userID string) (int, error) {
	cars, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(cars), nil
}

// Update changes a car's licence plate, keeping plates unique
func (s *CarService) Update(ctx context.Context, actorID string, car *entities.Car) error {
	existing, err := s.repo.GetByID(ctx, car.ID)
	if err != nil {
		return err
	}
	if existing.UserID != actorID {
		return apperrors.NewUnauthorizedError("access denied")
	}

	if existing.LicencePlate != car.LicencePlate {
		inUse, err := s.PlateExists(ctx, car.LicencePlate)
		if err != nil {
			return err
		}
		if inUse {
			return apperrors.NewConflictError("licence plate already exists")
		}
	}

	existing.LicencePlate = car.LicencePlate
	return s.repo.Update(ctx, existing)
}

// Delete soft-deletes one of the acting user's cars
func (s *CarService) Delete(ctx context.Context, actorID, id string) error {
	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if car.UserID != actorID {
		return apperrors.NewUnauthorizedError("not your car")
	}

	return s.repo.SoftDelete(ctx, id)
}

// DeleteAllByUser soft-deletes every car a user has registered
func (s *CarService) DeleteAllByUser(ctx context.Context, userID string) error {
	cars, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, car := range cars {
		if err := s.repo.SoftDelete(ctx, car.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeletePermanent removes the car row entirely and leaves an audit
// trail naming the acting user
func (s *CarService) DeletePermanent(ctx context.Context, actorID, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}

	entry := &entities.AuditLog{
		ID:          uuid.New().String(),
		Action:      entities.AuditActionCarDelete,
		Entity:      "Car",
		Description: fmt.Sprintf("Car ID %s permanently deleted.", id),
		UserID:      actorID,
		Timestamp:   time.Now(),
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		log.Error().Err(err).Str("car_id", id).Msg("failed to append car delete audit entry")
	}

	log.Info().Str("car_id", id).Msg("car permanently deleted")
	return nil
}
