package chat

import (
	"time"
)

// Message is a single entry in a session's log (user input or backend reply).
// Timestamp is the identity key: unique within a session and strictly increasing.
type Message struct {
	Text       string    `json:"text"`
	IsFromUser bool      `json:"is_from_user"`
	Timestamp  int64     `json:"timestamp"`
	CreatedAt  time.Time `json:"created_at"`
}

// Snapshot is a read-only view of a session's state at one point in time.
// Messages is a copy; observers may keep it but must not expect it to change.
type Snapshot struct {
	Messages  []Message `json:"messages"`
	Busy      bool      `json:"busy"`
	LastError *string   `json:"last_error"`
	Version   uint64    `json:"version"` // Incremented on every published change
}

// HasError reports whether the snapshot carries a backend failure
func (s Snapshot) HasError() bool {
	return s.LastError != nil
}

// ErrorText returns the error message or "" when there is none
func (s Snapshot) ErrorText() string {
	if s.LastError == nil {
		return ""
	}
	return *s.LastError
}

// LastReply returns the most recent backend message, if any
func (s Snapshot) LastReply() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if !s.Messages[i].IsFromUser {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}
