package repositories

import (
	"context"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// CarRepository defines the interface for car data operations. Reads
// exclude soft-deleted cars unless noted otherwise.
type CarRepository interface {
	// Create persists a new car
	Create(ctx context.Context, car *entities.Car) error

	// GetByID retrieves a car by ID
	GetByID(ctx context.Context, id string) (*entities.Car, error)

	// GetByPlate retrieves a car by licence plate, including
	// soft-deleted cars so plate uniqueness covers them too.
	GetByPlate(ctx context.Context, plate string) (*entities.Car, error)

	// ListByUser retrieves a user's cars
	ListByUser(ctx context.Context, userID string) ([]*entities.Car, error)

	// Update persists plate changes to an existing car
	Update(ctx context.Context, car *entities.Car) error

	// SoftDelete flags a car as deleted without removing the row
	SoftDelete(ctx context.Context, id string) error

	// HardDelete removes the row, ignoring the soft-delete flag
	HardDelete(ctx context.Context, id string) error
}
