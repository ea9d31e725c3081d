package entities

import (
	"time"
)

// Parking represents a parking facility
type Parking struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Area           string    `json:"area" db:"area"`
	ContactInfo    string    `json:"contact_info" db:"contact_info"`
	OperatingHours string    `json:"operating_hours" db:"operating_hours"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ParkingSpace represents a single space within a parking facility.
// SpaceNumber is unique within its parking.
type ParkingSpace struct {
	ID          string    `json:"id" db:"id"`
	ParkingID   string    `json:"parking_id" db:"parking_id"`
	SpaceNumber string    `json:"space_number" db:"space_number"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
