package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humblebot/internal/catalog"
	"humblebot/internal/config"
	chatModels "humblebot/internal/domain/models/chat"
	"humblebot/internal/handler/sse"
	chatService "humblebot/internal/service/chat"
)

// gateBackend blocks every Complete until the test releases a result
type gateBackend struct {
	results chan gateResult
}

type gateResult struct {
	reply string
	err   error
}

func newGateBackend() *gateBackend {
	return &gateBackend{results: make(chan gateResult)}
}

func (b *gateBackend) Name() string { return "gate" }

func (b *gateBackend) Complete(ctx context.Context, text string) (string, error) {
	select {
	case r := <-b.results:
		return r.reply, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *gateBackend) resolve(t *testing.T, reply string, err error) {
	t.Helper()
	select {
	case b.results <- gateResult{reply: reply, err: err}:
	case <-time.After(5 * time.Second):
		t.Fatal("backend was never called")
	}
}

type allAvailable struct{}

func (allAvailable) Available(name string) (bool, string) {
	if name == "anthropic" {
		return false, "ANTHROPIC_API_KEY"
	}
	return true, ""
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testServer struct {
	backend *gateBackend
	session *chatService.Service
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	backend := newGateBackend()
	session := chatService.NewService(backend, discardLogger())
	t.Cleanup(session.Close)

	cat, err := catalog.NewRegistry()
	require.NoError(t, err)

	mux := http.NewServeMux()
	RegisterRoutes(mux,
		NewSessionHandler(session, &sse.Config{KeepAliveInterval: time.Hour}, discardLogger()),
		NewBackendsHandler(cat, allAvailable{}, "lorem", "lorem", discardLogger()),
		NewHealthHandler(session),
	)

	return &testServer{backend: backend, session: session, handler: mux}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, chatModels.Snapshot) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var snap chatModels.Snapshot
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	}
	return rec, snap
}

func (s *testServer) waitIdle(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return !s.session.Snapshot().Busy }, 5*time.Second, time.Millisecond)
}

func TestGetSession_Empty(t *testing.T) {
	s := newTestServer(t)

	rec, snap := s.do(t, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, snap.Messages)
	assert.False(t, snap.Busy)
	assert.Nil(t, snap.LastError)
	assert.Contains(t, rec.Body.String(), `"messages":[]`)
}

func TestSendMessage_Accepted(t *testing.T) {
	s := newTestServer(t)

	rec, snap := s.do(t, http.MethodPost, "/api/session/messages", `{"text":"Hello"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "Hello", snap.Messages[0].Text)
	assert.True(t, snap.Messages[0].IsFromUser)
	assert.True(t, snap.Busy)

	s.backend.resolve(t, "Hi there", nil)
	s.waitIdle(t)

	_, snap = s.do(t, http.MethodGet, "/api/session", "")
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "Hi there", snap.Messages[1].Text)
	assert.False(t, snap.Messages[1].IsFromUser)
}

func TestSendMessage_BlankIsSilentNoop(t *testing.T) {
	s := newTestServer(t)

	rec, snap := s.do(t, http.MethodPost, "/api/session/messages", `{"text":"   "}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, snap.Messages)
	assert.False(t, snap.Busy)
}

func TestSendMessage_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "invalid json", body: `{"text":`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"message":"hi"}`, status: http.StatusBadRequest},
		{name: "too long", body: `{"text":"` + strings.Repeat("a", config.MaxMessageLength+1) + `"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec, _ := s.do(t, http.MethodPost, "/api/session/messages", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.Empty(t, s.session.Snapshot().Messages)
		})
	}
}

func TestClearError(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/session/messages", `{"text":"Hello"}`)
	s.backend.resolve(t, "", errors.New("Network down"))
	s.waitIdle(t)

	_, snap := s.do(t, http.MethodGet, "/api/session", "")
	require.NotNil(t, snap.LastError)
	assert.Equal(t, "Network down", *snap.LastError)

	rec, snap := s.do(t, http.MethodDelete, "/api/session/error", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, snap.LastError)
	assert.Len(t, snap.Messages, 1)
}

func TestClearChat(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/session/messages", `{"text":"Hello"}`)
	s.backend.resolve(t, "Hi", nil)
	s.waitIdle(t)

	rec, snap := s.do(t, http.MethodDelete, "/api/session/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, snap.Messages)
	assert.Nil(t, snap.LastError)
}

func TestListBackends(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/backends", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Backends []BackendResponse `json:"backends"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Backends, len(catalog.BackendNames))

	byName := map[string]BackendResponse{}
	for _, b := range body.Backends {
		byName[b.Name] = b
	}

	lorem := byName["lorem"]
	assert.True(t, lorem.Selected)
	assert.True(t, lorem.Models[0].Selected)
	assert.False(t, lorem.Models[1].Selected)

	anthropic := byName["anthropic"]
	assert.False(t, anthropic.Available)
	assert.Equal(t, "ANTHROPIC_API_KEY", anthropic.MissingConfig)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), s.session.ID())
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPut, "/api/session", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// readEvent reads one SSE frame, skipping keep-alive comments
func readEvent(t *testing.T, r *bufio.Reader) (string, chatModels.Snapshot) {
	t.Helper()

	var event, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, ":"):
			continue
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			var snap chatModels.Snapshot
			if event == chatModels.SSEEventSnapshot {
				require.NoError(t, json.Unmarshal([]byte(data), &snap))
			}
			return event, snap
		}
	}
}

func TestStreamEvents(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/session/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)

	event, snap := readEvent(t, reader)
	assert.Equal(t, chatModels.SSEEventSnapshot, event)
	assert.Empty(t, snap.Messages)

	s.session.SendMessage(context.Background(), "Hello")
	event, snap = readEvent(t, reader)
	assert.Equal(t, chatModels.SSEEventSnapshot, event)
	require.Len(t, snap.Messages, 1)
	assert.True(t, snap.Busy)

	s.backend.resolve(t, "Hi there", nil)
	event, snap = readEvent(t, reader)
	assert.Equal(t, chatModels.SSEEventSnapshot, event)
	require.Len(t, snap.Messages, 2)
	assert.False(t, snap.Busy)
}

func TestStreamEvents_SessionClosed(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/api/session/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	reader := bufio.NewReader(resp.Body)

	event, _ := readEvent(t, reader)
	require.Equal(t, chatModels.SSEEventSnapshot, event)

	s.session.Close()

	event, _ = readEvent(t, reader)
	assert.Equal(t, chatModels.SSEEventClosed, event)
}

func TestSessionDebug_NotMountedByDefault(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/session/debug", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionDebug(t *testing.T) {
	backend := newGateBackend()
	session := chatService.NewService(backend, discardLogger())
	t.Cleanup(session.Close)

	mux := http.NewServeMux()
	RegisterDebugRoutes(mux, NewDebugHandler(session, "gate", "gate-1", "drop"))

	session.SendMessage(context.Background(), "Hello")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/debug", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionDebugResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, session.ID(), resp.SessionID)
	assert.Equal(t, "gate", resp.Backend)
	assert.Equal(t, "gate-1", resp.Model)
	assert.Equal(t, "drop", resp.LateResultPolicy)
	assert.Equal(t, 1, resp.MessageCount)
	assert.True(t, resp.Busy)
	assert.Nil(t, resp.LastError)
	assert.Positive(t, resp.Goroutines)

	backend.resolve(t, "Hi", nil)
}
