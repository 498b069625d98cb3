package handler

import (
	"net/http"
	"runtime"
	"time"

	chatSvc "humblebot/internal/domain/services/chat"
	"humblebot/internal/httputil"
)

// DebugHandler exposes session internals. Only mounted when DEBUG is on.
type DebugHandler struct {
	session          chatSvc.Session
	backend          string
	model            string
	lateResultPolicy string
	startedAt        time.Time
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(session chatSvc.Session, backend, model, lateResultPolicy string) *DebugHandler {
	return &DebugHandler{
		session:          session,
		backend:          backend,
		model:            model,
		lateResultPolicy: lateResultPolicy,
		startedAt:        time.Now(),
	}
}

// SessionDebugResponse is the body of GET /api/session/debug
type SessionDebugResponse struct {
	SessionID        string  `json:"session_id"`
	Backend          string  `json:"backend"`
	Model            string  `json:"model"`
	LateResultPolicy string  `json:"late_result_policy"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	Goroutines       int     `json:"goroutines"`
	Version          uint64  `json:"version"`
	MessageCount     int     `json:"message_count"`
	Busy             bool    `json:"busy"`
	LastError        *string `json:"last_error"`
}

// GetSessionDebug returns the session state plus process details
// GET /api/session/debug
func (h *DebugHandler) GetSessionDebug(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Snapshot()

	httputil.RespondJSON(w, http.StatusOK, SessionDebugResponse{
		SessionID:        h.session.ID(),
		Backend:          h.backend,
		Model:            h.model,
		LateResultPolicy: h.lateResultPolicy,
		UptimeSeconds:    time.Since(h.startedAt).Seconds(),
		Goroutines:       runtime.NumGoroutine(),
		Version:          snap.Version,
		MessageCount:     len(snap.Messages),
		Busy:             snap.Busy,
		LastError:        snap.LastError,
	})
}
