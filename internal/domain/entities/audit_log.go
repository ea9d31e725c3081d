package entities

import (
	"time"
)

// Audit actions recorded by the core. The audit log is append-only:
// entries are created and never mutated or deleted.
const (
	AuditActionPayment       = "Payment"
	AuditActionCancellation  = "Cancellation"
	AuditActionOverdueCharge = "Overdue Charge"
	AuditActionCarDelete     = "Delete"
)

// AuditLog records a side-effecting action for later inspection
type AuditLog struct {
	ID          string    `json:"id" db:"id"`
	Action      string    `json:"action" db:"action"`
	Entity      string    `json:"entity" db:"entity"`
	Description string    `json:"description" db:"description"`
	UserID      string    `json:"user_id" db:"user_id"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}
