package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockHandler is a test handler that can be configured to fail
type mockHandler struct {
	enabled   bool
	handleErr error
	calls     int
}

func (h *mockHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return h.enabled
}

func (h *mockHandler) Handle(_ context.Context, _ slog.Record) error {
	h.calls++
	return h.handleErr
}

func (h *mockHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *mockHandler) WithGroup(_ string) slog.Handler {
	return h
}

func TestLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	inner := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	filter := NewLevelFilter(inner, slog.LevelWarn)

	assert.False(t, filter.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, filter.Enabled(context.Background(), slog.LevelError))

	logger := slog.New(filter).With("component", "listener").WithGroup("event")
	logger.Info("dropped")
	logger.Warn("kept", "id", 7)

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "component=listener")
	assert.Contains(t, out, "event.id=7")

	// Handle is guarded too when called directly.
	r := slog.NewRecord(time.Now(), slog.LevelDebug, "direct", 0)
	assert.NoError(t, filter.Handle(context.Background(), r))
	assert.NotContains(t, buf.String(), "direct")
}

func TestMultiHandler_Handle(t *testing.T) {
	buf1 := &bytes.Buffer{}
	buf2 := &bytes.Buffer{}

	multi := NewMultiHandler(
		slog.NewTextHandler(buf1, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(buf2, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(multi)

	logger.Info("info message", "key", "value")
	logger.Warn("warn message")

	assert.Contains(t, buf1.String(), "info message")
	assert.Contains(t, buf1.String(), "key=value")
	assert.Contains(t, buf1.String(), "warn message")
	assert.NotContains(t, buf2.String(), "info message")
	assert.Contains(t, buf2.String(), "warn message")
}

func TestMultiHandler_Enabled(t *testing.T) {
	multi := NewMultiHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, multi.Enabled(context.Background(), slog.LevelDebug))
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	buf := &bytes.Buffer{}
	multi := NewMultiHandler(slog.NewTextHandler(buf, nil))

	slog.New(multi).With("mode", "command").WithGroup("doc").Info("synced", "id", 7)

	assert.Contains(t, buf.String(), "mode=command")
	assert.Contains(t, buf.String(), "doc.id=7")
}

func TestMultiHandler_ErrorsDoNotStopFanOut(t *testing.T) {
	errA := errors.New("disk full")
	failing := &mockHandler{enabled: true, handleErr: errA}
	healthy := &mockHandler{enabled: true}
	disabled := &mockHandler{enabled: false}

	multi := NewMultiHandler(failing, healthy, disabled)
	err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0))

	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, healthy.calls)
	assert.Zero(t, disabled.calls)
}
