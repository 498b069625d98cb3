package backend

import (
	"context"
	"errors"
	"time"

	chatSvc "humblebot/internal/domain/services/chat"
)

// ErrTimeout is returned when a backend does not answer within its deadline.
// The session shows error text verbatim, so this one reads as a sentence.
var ErrTimeout = errors.New("The assistant took too long to answer. Please try again.")

type timeoutBackend struct {
	next    chatSvc.Backend
	timeout time.Duration
}

// WithTimeout bounds every Complete call of b by d. d <= 0 returns b unchanged.
func WithTimeout(b chatSvc.Backend, d time.Duration) chatSvc.Backend {
	if d <= 0 {
		return b
	}
	return &timeoutBackend{next: b, timeout: d}
}

func (t *timeoutBackend) Name() string {
	return t.next.Name()
}

func (t *timeoutBackend) Complete(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	reply, err := t.next.Complete(ctx, text)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", ErrTimeout
	}
	return reply, err
}
