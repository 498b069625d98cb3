package handler

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"humblebot/internal/config"
	"humblebot/internal/domain"
	chatModels "humblebot/internal/domain/models/chat"
	chatSvc "humblebot/internal/domain/services/chat"
	"humblebot/internal/handler/sse"
	"humblebot/internal/httputil"
)

// SessionHandler renders the single chat session over HTTP
type SessionHandler struct {
	session   chatSvc.Session
	sseConfig *sse.Config
	logger    *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session chatSvc.Session, sseConfig *sse.Config, logger *slog.Logger) *SessionHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	return &SessionHandler{
		session:   session,
		sseConfig: sseConfig,
		logger:    logger,
	}
}

// SendMessageRequest is the body of POST /api/session/messages
type SendMessageRequest struct {
	Text string `json:"text"`
}

// Validate checks the request. Blank text is allowed; the session ignores it.
func (r SendMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.RuneLength(0, config.MaxMessageLength)),
	)
}

// GetSession returns the current snapshot
// GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.session.Snapshot())
}

// SendMessage hands the text to the session and returns the resulting snapshot.
// The session decides whether the message is accepted, so this always answers 202.
// POST /api/session/messages
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(w, err)
			return
		}
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}

	h.session.SendMessage(r.Context(), req.Text)

	httputil.RespondJSON(w, http.StatusAccepted, h.session.Snapshot())
}

// ClearError dismisses the last backend failure
// DELETE /api/session/error
func (h *SessionHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.session.ClearError(r.Context())
	httputil.RespondJSON(w, http.StatusOK, h.session.Snapshot())
}

// ClearChat empties the conversation
// DELETE /api/session/messages
func (h *SessionHandler) ClearChat(w http.ResponseWriter, r *http.Request) {
	h.session.ClearChat(r.Context())
	httputil.RespondJSON(w, http.StatusOK, h.session.Snapshot())
}

// StreamEvents pushes a snapshot event on connect and after every change.
// The stream ends when the client goes away or the session closes.
// GET /api/session/events
func (h *SessionHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	clientID := uuid.NewString()
	log := httputil.Logger(r, h.logger).With("client_id", clientID)

	writer, err := sse.NewWriter(w, clientID)
	if err != nil {
		log.Error("sse not supported by response writer", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	updates, unsubscribe := h.session.Subscribe()
	defer unsubscribe()

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	stopped := keepAlive.Start(writer, log)
	defer func() {
		keepAlive.Stop()
		<-stopped
	}()

	log.Info("sse client connected")

	for {
		select {
		case <-r.Context().Done():
			log.Info("sse client disconnected")
			return

		case <-stopped:
			log.Info("sse stream ended by keep-alive failure")
			return

		case snap, ok := <-updates:
			if !ok {
				if frame, err := chatModels.NewSessionClosedEvent(h.session.ID()); err == nil {
					_ = writer.WriteFrame(frame)
				}
				log.Info("sse stream ended, session closed")
				return
			}

			frame, err := chatModels.NewSnapshotEvent(snap)
			if err != nil {
				log.Error("failed to format snapshot event", "error", err)
				continue
			}
			if err := writer.WriteFrame(frame); err != nil {
				log.Warn("sse write failed", "error", err)
				return
			}
		}
	}
}
