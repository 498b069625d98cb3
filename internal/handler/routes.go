package handler

import "net/http"

// RegisterRoutes mounts the session, catalog and health endpoints on mux
func RegisterRoutes(mux *http.ServeMux, session *SessionHandler, backends *BackendsHandler, health *HealthHandler) {
	mux.HandleFunc("GET /health", health.HealthCheck)

	// Session
	mux.HandleFunc("GET /api/session", session.GetSession)
	mux.HandleFunc("POST /api/session/messages", session.SendMessage)
	mux.HandleFunc("DELETE /api/session/messages", session.ClearChat)
	mux.HandleFunc("DELETE /api/session/error", session.ClearError)
	mux.HandleFunc("GET /api/session/events", session.StreamEvents) // SSE

	// Catalog
	mux.HandleFunc("GET /api/backends", backends.ListBackends)
}

// RegisterDebugRoutes mounts dev-only endpoints
func RegisterDebugRoutes(mux *http.ServeMux, debug *DebugHandler) {
	mux.HandleFunc("GET /api/session/debug", debug.GetSessionDebug)
}
