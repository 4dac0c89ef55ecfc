package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStd(LevelWarn, &buf)

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "hidden too")
	require.Empty(t, buf.String())

	logger.Warn(context.Background(), "visible")
	assert.Contains(t, buf.String(), "[WARN] visible")
}

func TestStdLoggerIncludesFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStd(LevelDebug, &buf).WithFields(F("tool", "yapf"))

	logger.Error(context.Background(), "run failed", errors.New("boom"), F("exit", 2))

	out := buf.String()
	assert.Contains(t, out, `[error="boom"]`)
	assert.Contains(t, out, "tool=yapf")
	assert.Contains(t, out, "exit=2")
}

func TestStdLoggerAttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStd(LevelDebug, &buf)

	ctx := WithRequestID(context.Background(), "req-42")
	logger.Info(ctx, "formatting")

	assert.Contains(t, buf.String(), "request_id=req-42")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLevel("unknown"))
}
