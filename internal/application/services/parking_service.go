package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/providers"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
)

// ParkingService handles parking facility management. Mutations
// publish events so cached responses get invalidated everywhere.
type ParkingService struct {
	repo     repositories.ParkingRepository
	eventBus providers.EventBus
}

// NewParkingService creates a new parking service
func NewParkingService(repo repositories.ParkingRepository, eventBus providers.EventBus) *ParkingService {
	return &ParkingService{
		repo:     repo,
		eventBus: eventBus,
	}
}

// GetAll retrieves all parking facilities
func (s *ParkingService) GetAll(ctx context.Context) ([]*entities.Parking, error) {
	return s.repo.List(ctx)
}

// GetByID retrieves a parking facility by ID
func (s *ParkingService) GetByID(ctx context.Context, id string) (*entities.Parking, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByArea retrieves parking facilities within an area
func (s *ParkingService) GetByArea(ctx context.Context, area string) ([]*entities.Parking, error) {
	return s.repo.ListByArea(ctx, area)
}

// Create creates a new parking facility
func (s *ParkingService) Create(ctx context.Context, parking *entities.Parking) error {
	if parking.ID == "" {
		parking.ID = uuid.New().String()
	}
	now := time.Now()
	parking.CreatedAt = now
	parking.UpdatedAt = now

	if err := s.repo.Create(ctx, parking); err != nil {
		return err
	}

	s.publish(ctx, parking.ID, entities.ParkingEventTypeCreated)
	log.Info().Str("parking_id", parking.ID).Str("name", parking.Name).Msg("parking created")
	return nil
}

// Delete removes a parking facility
func (s *ParkingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, id, entities.ParkingEventTypeDeleted)
	log.Info().Str("parking_id", id).Msg("parking deleted")
	return nil
}

// publish emits an invalidation event. The mutation has already been
// persisted, so a publish failure only delays cache freshness.
func (s *ParkingService) publish(ctx context.Context, parkingID string, eventType entities.ParkingEventType) {
	event := entities.NewParkingEvent(parkingID, eventType)
	if err := s.eventBus.Publish(ctx, providers.EventChannelParkingUpdates, event); err != nil {
		log.Warn().Err(err).Str("parking_id", parkingID).Msg("failed to publish parking event")
	}
}
