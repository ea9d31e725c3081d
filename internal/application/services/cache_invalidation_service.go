package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/providers"
)

// CacheInvalidationService drops cached HTTP responses when parking
// data changes. Mutations publish events on the bus; this service is
// the subscriber side, so invalidation works across instances.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelParkingUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to parking updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ParkingEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent drops the cached responses touching the mutated parking.
// List responses are invalidated too since the mutation changes them.
func (s *CacheInvalidationService) handleEvent(event *entities.ParkingEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Debug().Str("event_id", event.ID).Str("parking_id", event.ParkingID).
		Str("event_type", string(event.EventType)).Msg("processing cache invalidation")

	patterns := []string{
		fmt.Sprintf("http:cache:*parkings/%s*", event.ParkingID),
		"http:cache:*parkings",
		"http:cache:*parkings/area*",
		"http:cache:*parking-spaces*",
	}

	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			log.Warn().Err(err).Str("pattern", pattern).Msg("failed to invalidate cache pattern")
		}
	}
}

// InvalidateParkingCache invalidates cached responses for a specific
// parking facility
func (s *CacheInvalidationService) InvalidateParkingCache(ctx context.Context, parkingID string) error {
	pattern := fmt.Sprintf("http:cache:*parkings/%s*", parkingID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate parking cache: %w", err)
	}
	log.Info().Str("parking_id", parkingID).Msg("invalidated parking cache")
	return nil
}
