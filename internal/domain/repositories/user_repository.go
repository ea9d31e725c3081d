package repositories

import (
	"context"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// UserRepository defines the interface for user account data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
	Delete(ctx context.Context, id string) error
}
