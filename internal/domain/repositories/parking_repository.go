package repositories

import (
	"context"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// ParkingRepository defines the interface for parking facility data operations
type ParkingRepository interface {
	Create(ctx context.Context, parking *entities.Parking) error
	GetByID(ctx context.Context, id string) (*entities.Parking, error)
	List(ctx context.Context) ([]*entities.Parking, error)
	ListByArea(ctx context.Context, area string) ([]*entities.Parking, error)
	Delete(ctx context.Context, id string) error
}

// ParkingSpaceRepository defines the interface for parking space data operations
type ParkingSpaceRepository interface {
	Create(ctx context.Context, space *entities.ParkingSpace) error
	GetByID(ctx context.Context, id string) (*entities.ParkingSpace, error)
	List(ctx context.Context) ([]*entities.ParkingSpace, error)
	ListByParking(ctx context.Context, parkingID string) ([]*entities.ParkingSpace, error)
	Delete(ctx context.Context, id string) error
}
