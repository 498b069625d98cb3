package sse

import (
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWriter struct {
	calls atomic.Int32
	err   error
}

func (c *countingWriter) WriteKeepAlive() error {
	c.calls.Add(1)
	return c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTickerKeepAlive_PingsUntilStopped(t *testing.T) {
	w := &countingWriter{}
	k := NewTickerKeepAlive(5 * time.Millisecond)

	stopped := k.Start(w, discardLogger())
	require.Eventually(t, func() bool { return w.calls.Load() >= 2 }, time.Second, time.Millisecond)

	k.Stop()
	k.Stop() // idempotent

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("keep-alive did not stop")
	}
}

func TestTickerKeepAlive_StopsOnWriteError(t *testing.T) {
	w := &countingWriter{err: errors.New("broken pipe")}
	k := NewTickerKeepAlive(5 * time.Millisecond)

	stopped := k.Start(w, discardLogger())

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("keep-alive kept running after a failed write")
	}
	assert.Equal(t, int32(1), w.calls.Load())
}

func TestWriter(t *testing.T) {
	rec := httptest.NewRecorder()

	w, err := NewWriter(rec, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "client-1", w.ClientID())
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	require.NoError(t, w.WriteFrame("event: snapshot\ndata: {}\n\n"))
	require.NoError(t, w.WriteKeepAlive())

	assert.Equal(t, "event: snapshot\ndata: {}\n\n: keepalive\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}
