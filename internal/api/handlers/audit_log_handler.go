package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

// AuditLogReader defines read access to the audit trail
type AuditLogReader interface {
	ListRecent(ctx context.Context, limit int) ([]*entities.AuditLog, error)
}

// AuditLogHandler handles audit trail requests
type AuditLogHandler struct {
	repo AuditLogReader
}

// NewAuditLogHandler creates a new audit log handler
func NewAuditLogHandler(repo AuditLogReader) *AuditLogHandler {
	return &AuditLogHandler{
		repo: repo,
	}
}

// ListAuditLogs handles GET /api/audit-logs
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}
