package httputil

import (
	"log/slog"
	"net/http"

	"humblebot/internal/observability"
)

// WithRequestID adds the request ID to the request context
func WithRequestID(r *http.Request, requestID string) *http.Request {
	return r.WithContext(observability.WithRequestID(r.Context(), requestID))
}

// GetRequestID retrieves the request ID from context, returns empty string if not found
func GetRequestID(r *http.Request) string {
	return observability.RequestID(r.Context())
}

// Logger returns base scoped to the request (request_id when present)
func Logger(r *http.Request, base *slog.Logger) *slog.Logger {
	return observability.LoggerFromContext(r.Context(), base)
}
