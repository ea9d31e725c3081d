package repositories

import (
	"context"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// AuditLogRepository defines the interface for the append-only audit trail
type AuditLogRepository interface {
	// Append records a new audit entry
	Append(ctx context.Context, entry *entities.AuditLog) error

	// ListRecent retrieves the most recent entries, newest first
	ListRecent(ctx context.Context, limit int) ([]*entities.AuditLog, error)
}
