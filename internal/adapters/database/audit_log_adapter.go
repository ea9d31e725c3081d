package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
	"github.com/openlots/parking-reservation/internal/infrastructure/clients/postgres"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

// AuditLogAdapter implements the AuditLogRepository interface. The
// audit trail is append-only so the adapter exposes no update or
// delete path.
type AuditLogAdapter struct {
	db *sqlx.DB
}

// NewAuditLogAdapter creates a new audit log adapter
func NewAuditLogAdapter(client *postgres.Client) repositories.AuditLogRepository {
	return &AuditLogAdapter{
		db: sqlx.NewDb(client.DB(), "postgres"),
	}
}

// Append records a new audit entry
func (a *AuditLogAdapter) Append(ctx context.Context, entry *entities.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, action, entity, description, user_id, timestamp)
		VALUES (:id, :action, :entity, :description, :user_id, :timestamp)`

	_, err := a.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return apperrors.NewInternalError("failed to append audit entry", err)
	}

	return nil
}

// ListRecent retrieves the most recent entries, newest first
func (a *AuditLogAdapter) ListRecent(ctx context.Context, limit int) ([]*entities.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, action, entity, description, user_id, timestamp
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1`

	var entries []*entities.AuditLog
	err := a.db.SelectContext(ctx, &entries, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list audit entries", err)
	}

	return entries, nil
}
