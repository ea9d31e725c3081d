package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/openlots/parking-reservation/internal/infrastructure/observability"
)

// ObservabilityMiddleware adds OpenTelemetry tracing and metrics to HTTP requests
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), r.URL.Path)
			defer span.End()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			req := r.WithContext(ctx)

			start := time.Now()
			next.ServeHTTP(rw, req)
			duration := time.Since(start)

			// The mux fills in the matched pattern during dispatch; prefer
			// it over the raw path to keep metric cardinality bounded
			route := req.Pattern
			if route == "" {
				route = r.URL.Path
			}
			span.SetName(route)

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.Int("http.status_code", rw.statusCode),
			)
			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, duration)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
