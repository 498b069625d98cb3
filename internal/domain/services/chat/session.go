package chat

import (
	"context"

	chatModels "humblebot/internal/domain/models/chat"
)

// Backend is the text-completion service a session delegates to.
// Implementations may take arbitrarily long; timeouts and retries are theirs to own.
type Backend interface {
	// Complete returns the reply for a single user message.
	// A returned error's message is shown to the user verbatim.
	Complete(ctx context.Context, text string) (string, error)

	// Name returns the backend name (e.g., "anthropic", "lorem")
	Name() string
}

// Session owns one conversation: the ordered message log plus the
// in-flight/error state. At most one backend request is outstanding at a time.
type Session interface {
	// ID returns the session identifier used in logs
	ID() string

	// SendMessage appends the user message and starts a backend request.
	// Blank text, a busy session or a closed session make this a silent no-op.
	// ctx is used for logging only; the backend call outlives it.
	SendMessage(ctx context.Context, text string)

	// ClearError drops the last backend failure. Never touches the log or busy.
	ClearError(ctx context.Context)

	// ClearChat empties the log and the last error. Does not cancel an in-flight request.
	ClearChat(ctx context.Context)

	// Snapshot returns the current state
	Snapshot() chatModels.Snapshot

	// Subscribe returns a channel holding the current snapshot and then the latest
	// snapshot after every change. Slow readers only ever miss intermediate states.
	// The returned func unsubscribes and closes the channel.
	Subscribe() (<-chan chatModels.Snapshot, func())

	// Close ends the session: in-flight results are dropped and subscriptions close
	Close()
}
