package lorem

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"
)

// FailModel never answers successfully. Useful for exercising the error path end to end.
const FailModel = "lorem-fail"

// ErrNetworkDown is what FailModel returns after its delay.
// Shown to the user as the session's last error, hence the sentence form.
var ErrNetworkDown = errors.New("Network unavailable. The lorem-fail model never answers.")

// Backend is a mock chat backend that replies with lorem ipsum text.
// Used for local runs and tests without requiring real API keys.
type Backend struct {
	model string
	delay time.Duration

	mu        sync.Mutex // generator is not safe for concurrent use
	generator *loremgen.Lorem
}

// NewBackend creates a lorem backend. delay simulates the round trip of a real API.
func NewBackend(model string, delay time.Duration) *Backend {
	if model == "" {
		model = "lorem"
	}
	return &Backend{
		model:     model,
		delay:     delay,
		generator: loremgen.New(),
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "lorem"
}

// Model returns the configured model name
func (b *Backend) Model() string {
	return b.model
}

// Complete waits for the configured delay, then returns one or two lorem sentences.
func (b *Backend) Complete(ctx context.Context, text string) (string, error) {
	if b.delay > 0 {
		timer := time.NewTimer(b.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	if b.model == FailModel {
		return "", ErrNetworkDown
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Longer prompts get a longer answer
	sentences := 1
	if len(strings.Fields(text)) > 8 {
		sentences = 2
	}
	parts := make([]string, sentences)
	for i := range parts {
		parts[i] = b.generator.Sentence(6, 16)
	}
	return strings.Join(parts, " "), nil
}
