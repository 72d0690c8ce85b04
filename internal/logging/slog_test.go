package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(level slog.Level) (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newBufferLogger(slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "k", "v")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	out := buf.String()
	assert.Contains(t, out, "dbg")
	assert.Contains(t, out, "inf")
	assert.Contains(t, out, "wrn")
	assert.Contains(t, out, "err")
	assert.Contains(t, out, "k=v")
}

func TestSlogLogger_DebugSuppressedAtInfo(t *testing.T) {
	log, buf := newBufferLogger(slog.LevelInfo)
	log.Debug(context.Background(), "hidden")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newBufferLogger(slog.LevelInfo)
	child := log.With("feature", "auth")
	child.Info(context.Background(), "hello")
	assert.Contains(t, buf.String(), "feature=auth")
}
