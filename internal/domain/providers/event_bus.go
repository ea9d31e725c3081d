package providers

import (
	"context"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// EventChannelParkingUpdates is the channel carrying parking mutation events
const EventChannelParkingUpdates = "parking:updates"

// EventBus defines the interface for publishing and subscribing to
// parking mutation events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ParkingEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ParkingEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}
