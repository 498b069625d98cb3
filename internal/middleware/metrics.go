package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"humblebot/internal/metrics"
)

// knownPaths bounds the path label; anything else is reported as "other"
var knownPaths = map[string]bool{
	"/health":               true,
	"/metrics":              true,
	"/api/session":          true,
	"/api/session/messages": true,
	"/api/session/error":    true,
	"/api/session/events":   true,
	"/api/session/debug":    true,
	"/api/backends":         true,
}

// Metrics returns middleware that records Prometheus metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status; keeps http.Flusher for SSE
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := normalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, path, strconv.Itoa(status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method, path,
		).Observe(time.Since(start).Seconds())
	})
}

// normalizePath normalizes paths to avoid high cardinality in metrics.
func normalizePath(path string) string {
	if knownPaths[path] {
		return path
	}
	return "other"
}
