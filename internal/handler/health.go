package handler

import (
	"net/http"
	"time"

	chatSvc "humblebot/internal/domain/services/chat"
	"humblebot/internal/httputil"
)

// HealthHandler answers liveness probes
type HealthHandler struct {
	session chatSvc.Session
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(session chatSvc.Session) *HealthHandler {
	return &HealthHandler{session: session}
}

// HealthCheck returns server status
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"time":       time.Now().UTC(),
		"session_id": h.session.ID(),
	})
}
