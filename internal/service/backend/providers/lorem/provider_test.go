package lorem

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_ReturnsText(t *testing.T) {
	b := NewBackend("", 0)

	reply, err := b.Complete(context.Background(), "Hello")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(reply))
	assert.Equal(t, "lorem", b.Name())
	assert.Equal(t, "lorem", b.Model())
}

func TestComplete_FailModel(t *testing.T) {
	b := NewBackend(FailModel, 0)

	_, err := b.Complete(context.Background(), "Hello")
	assert.True(t, errors.Is(err, ErrNetworkDown))
}

func TestComplete_HonoursCancellation(t *testing.T) {
	b := NewBackend("lorem", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := b.Complete(ctx, "Hello")
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Complete did not return after cancel")
	}
}

func TestComplete_CancelledBeforeStart(t *testing.T) {
	b := NewBackend("lorem", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Complete(ctx, "Hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComplete_Delay(t *testing.T) {
	b := NewBackend("lorem", 20*time.Millisecond)

	start := time.Now()
	_, err := b.Complete(context.Background(), "Hello")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
