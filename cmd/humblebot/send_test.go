package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humblebot/internal/catalog"
	"humblebot/internal/service/backend/providers/lorem"
	chatService "humblebot/internal/service/chat"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendAndWait_Reply(t *testing.T) {
	session := chatService.NewService(lorem.NewBackend("lorem", time.Millisecond), discardLogger())
	defer session.Close()

	snap, err := sendAndWait(context.Background(), session, "Hello")
	require.NoError(t, err)
	require.Len(t, snap.Messages, 2)
	assert.False(t, snap.HasError())

	reply, ok := snap.LastReply()
	require.True(t, ok)
	assert.NotEmpty(t, reply.Text)
}

func TestSendAndWait_Failure(t *testing.T) {
	session := chatService.NewService(lorem.NewBackend(lorem.FailModel, 0), discardLogger())
	defer session.Close()

	snap, err := sendAndWait(context.Background(), session, "Hello")
	require.NoError(t, err)
	require.True(t, snap.HasError())
	assert.Equal(t, lorem.ErrNetworkDown.Error(), snap.ErrorText())
	assert.Len(t, snap.Messages, 1)
}

func TestSendAndWait_Cancelled(t *testing.T) {
	session := chatService.NewService(lorem.NewBackend("lorem", time.Hour), discardLogger())
	defer session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := sendAndWait(ctx, session, "Hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFormatModels(t *testing.T) {
	cat, err := catalog.NewRegistry()
	require.NoError(t, err)

	loremBackend, err := cat.Backend("lorem")
	require.NoError(t, err)
	assert.Equal(t, "lorem *\nlorem-fail", formatModels(*loremBackend))

	httpBackend, err := cat.Backend("http")
	require.NoError(t, err)
	assert.Equal(t, "any", formatModels(*httpBackend))
}
