package entities

import (
	"time"
)

// Reservation represents a booked time interval for one car in one
// parking space. The four notification flags are monotonic: once set
// they are never reset, and each one gates at most a single email of
// its category.
type Reservation struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	CarID          string    `json:"car_id" db:"car_id"`
	ParkingSpaceID string    `json:"parking_space_id" db:"parking_space_id"`
	StartTime      time.Time `json:"start_time" db:"start_time"`
	EndTime        time.Time `json:"end_time" db:"end_time"`

	IsPaid      bool `json:"is_paid" db:"is_paid"`
	IsCancelled bool `json:"is_cancelled" db:"is_cancelled"`

	IsStartNotified  bool `json:"is_start_notified" db:"is_start_notified"`
	IsEndNotified    bool `json:"is_end_notified" db:"is_end_notified"`
	IsOverdue        bool `json:"is_overdue" db:"is_overdue"`
	IsOverdueCharged bool `json:"is_overdue_charged" db:"is_overdue_charged"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DetailedReservation is a reservation joined with the user, car and
// parking data the notifier and read endpoints need.
type DetailedReservation struct {
	Reservation

	UserEmail     string `json:"user_email" db:"user_email"`
	UserFirstName string `json:"user_first_name" db:"user_first_name"`
	LicencePlate  string `json:"licence_plate" db:"licence_plate"`
	ParkingName   string `json:"parking_name" db:"parking_name"`
	SpaceNumber   string `json:"space_number" db:"space_number"`
}

// ReservationPayment carries the simulated card details for paying a
// reservation. Only the card number length is ever validated.
type ReservationPayment struct {
	ReservationID  string  `json:"reservation_id"`
	CardNumber     string  `json:"card_number"`
	CardHolderName string  `json:"card_holder_name"`
	Expiration     string  `json:"expiration"` // MM/YY
	CVC            string  `json:"cvc"`
	Amount         float64 `json:"amount"`
}

// MaskedCardSuffix returns the last four digits of the card number for
// audit trails. Shorter inputs are returned unchanged.
func (p *ReservationPayment) MaskedCardSuffix() string {
	if len(p.CardNumber) <= 4 {
		return p.CardNumber
	}
	return p.CardNumber[len(p.CardNumber)-4:]
}
