package entities

import (
	"time"
)

// Car represents a user's registered car. Cars are soft-deleted:
// Delete flips IsDeleted and the car stops appearing in lookups, while
// a permanent delete removes the row and leaves an audit trail.
type Car struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	LicencePlate string    `json:"licence_plate" db:"licence_plate"`
	IsDeleted    bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
