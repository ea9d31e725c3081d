package entities

import (
	"time"

	"github.com/google/uuid"
)

// ParkingEventType represents the type of parking facility event
type ParkingEventType string

const (
	ParkingEventTypeCreated      ParkingEventType = "parking_created"
	ParkingEventTypeDeleted      ParkingEventType = "parking_deleted"
	ParkingEventTypeSpaceCreated ParkingEventType = "space_created"
	ParkingEventTypeSpaceDeleted ParkingEventType = "space_deleted"
)

// ParkingEvent represents a mutation event for a parking facility,
// published so response caches can be invalidated.
type ParkingEvent struct {
	ID        string           `json:"id"`
	ParkingID string           `json:"parking_id"`
	EventType ParkingEventType `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewParkingEvent creates a new parking event
func NewParkingEvent(parkingID string, eventType ParkingEventType) *ParkingEvent {
	return &ParkingEvent{
		ID:        uuid.New().String(),
		ParkingID: parkingID,
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
