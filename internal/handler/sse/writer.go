package sse

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// ErrStreamingUnsupported means the ResponseWriter cannot flush
var ErrStreamingUnsupported = errors.New("streaming not supported")

// Writer serializes event frames and keep-alive comments onto one response.
// Event writes and keep-alive pings come from different goroutines, so every write holds mu.
type Writer struct {
	mu       sync.Mutex
	w        http.ResponseWriter
	flusher  http.Flusher
	clientID string
}

// NewWriter sets the SSE headers and returns a writer for w
func NewWriter(w http.ResponseWriter, clientID string) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher, clientID: clientID}, nil
}

// ClientID identifies the connection in logs
func (s *Writer) ClientID() string {
	return s.clientID
}

// WriteFrame writes a pre-formatted SSE frame and flushes
func (s *Writer) WriteFrame(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprint(s.w, frame); err != nil {
		return fmt.Errorf("write event failed: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WriteKeepAlive writes an SSE comment (": keepalive") and flushes
func (s *Writer) WriteKeepAlive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprint(s.w, ": keepalive\n\n"); err != nil {
		return fmt.Errorf("write keepalive failed: %w", err)
	}
	s.flusher.Flush()
	return nil
}
