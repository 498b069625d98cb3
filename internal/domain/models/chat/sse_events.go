package chat

import (
	"encoding/json"
	"fmt"
)

// SSE event type constants
const (
	SSEEventSnapshot = "snapshot" // Full session state after a change
	SSEEventClosed   = "closed"   // Session ended, no further snapshots
)

// SessionClosedEvent is sent once when the session goes away mid-stream
type SessionClosedEvent struct {
	SessionID string `json:"session_id"`
}

// FormatSSE formats an SSE event for transmission
// Returns a string in SSE format:
//
//	event: event_name
//	data: {"field": "value"}
//	\n
func FormatSSE(eventType string, data interface{}) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal SSE event data: %w", err)
	}

	return fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, string(jsonData)), nil
}

// NewSnapshotEvent creates a snapshot SSE event
func NewSnapshotEvent(snap Snapshot) (string, error) {
	return FormatSSE(SSEEventSnapshot, snap)
}

// NewSessionClosedEvent creates a closed SSE event
func NewSessionClosedEvent(sessionID string) (string, error) {
	return FormatSSE(SSEEventClosed, SessionClosedEvent{SessionID: sessionID})
}
