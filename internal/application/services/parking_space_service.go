package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/providers"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

// ParkingSpaceService handles parking space management
type ParkingSpaceService struct {
	repo        repositories.ParkingSpaceRepository
	parkingRepo repositories.ParkingRepository
	eventBus    providers.EventBus
}

// NewParkingSpaceService creates a new parking space service
func NewParkingSpaceService(
	repo repositories.ParkingSpaceRepository,
	parkingRepo repositories.ParkingRepository,
	eventBus providers.EventBus,
) *ParkingSpaceService {
	return &ParkingSpaceService{
		repo:        repo,
		parkingRepo: parkingRepo,
		eventBus:    eventBus,
	}
}

// GetAll retrieves all parking spaces
func (s *ParkingSpaceService) GetAll(ctx context.Context) ([]*entities.ParkingSpace, error) {
	return s.repo.List(ctx)
}

// GetByID retrieves a parking space by ID
func (s *ParkingSpaceService) GetByID(ctx context.Context, id string) (*entities.ParkingSpace, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByParkingID retrieves the spaces belonging to a parking facility
func (s *ParkingSpaceService) GetByParkingID(ctx context.Context, parkingID string) ([]*entities.ParkingSpace, error) {
	return s.repo.ListByParking(ctx, parkingID)
}

// Create creates a new space inside an existing parking facility.
// Space numbers are unique within their parking.
func (s *ParkingSpaceService) Create(ctx context.Context, space *entities.ParkingSpace) error {
	if _, err := s.parkingRepo.GetByID(ctx, space.ParkingID); err != nil {
		return err
	}

	siblings, err := s.repo.ListByParking(ctx, space.ParkingID)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		if sibling.SpaceNumber == space.SpaceNumber {
			return apperrors.NewConflictError("space number already exists in this parking")
		}
	}

	if space.ID == "" {
		space.ID = uuid.New().String()
	}
	now := time.Now()
	space.CreatedAt = now
	space.UpdatedAt = now

	if err := s.repo.Create(ctx, space); err != nil {
		return err
	}

	s.publish(ctx, space.ParkingID, entities.ParkingEventTypeSpaceCreated)
	log.Info().Str("space_id", space.ID).Str("parking_id", space.ParkingID).
		Str("space_number", space.SpaceNumber).Msg("parking space created")
	return nil
}

// Delete removes a parking space
func (s *ParkingSpaceService) Delete(ctx context.Context, id string) error {
	space, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, space.ParkingID, entities.ParkingEventTypeSpaceDeleted)
	log.Info().Str("space_id", id).Msg("parking space deleted")
	return nil
}

func (s *ParkingSpaceService) publish(ctx context.Context, parkingID string, eventType entities.ParkingEventType) {
	event := entities.NewParkingEvent(parkingID, eventType)
	if err := s.eventBus.Publish(ctx, providers.EventChannelParkingUpdates, event); err != nil {
		log.Warn().Err(err).Str("parking_id", parkingID).Msg("failed to publish parking event")
	}
}
