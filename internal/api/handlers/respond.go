package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps classified application errors onto HTTP
// status codes. Unclassified errors become 500s with a generic body so
// internals do not leak.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
