package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openlots/parking-reservation/internal/domain/entities"
)

type contextKey string

const (
	contextKeyUserID contextKey = "auth.user_id"
	contextKeyRole   contextKey = "auth.role"
)

// UserIDFromContext returns the authenticated user's ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKeyUserID).(string)
	return id, ok
}

// RoleFromContext returns the authenticated user's role, if any.
func RoleFromContext(ctx context.Context) (entities.UserRole, bool) {
	role, ok := ctx.Value(contextKeyRole).(entities.UserRole)
	return role, ok
}

// AuthMiddleware validates the Bearer token on incoming requests and
// stores the caller's identity on the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, "missing or malformed authorization header")
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				writeAuthError(w, "invalid or expired token")
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				writeAuthError(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, sub)
			if role, ok := claims["role"].(string); ok {
				ctx = context.WithValue(ctx, contextKeyRole, entities.UserRole(role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose authenticated role is not in the
// allowed set. It must run after AuthMiddleware.
func RequireRole(roles ...entities.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				writeAuthError(w, "missing or malformed authorization header")
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "insufficient permissions"})
		})
	}
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
