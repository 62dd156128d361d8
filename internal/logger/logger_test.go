package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/calendar-api/internal/config"
)

func TestNew_JSON(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	New(&buf, "info", "json")

	ctx := WithRequestID(context.Background(), "req-123")
	Info(ctx, "converted", slog.String(KeyCalendar, "jewish"), slog.Int(KeyJD, 2457491))
	Debug(ctx, "hidden at info level")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "converted", line["msg"])
	assert.Equal(t, "req-123", line[KeyRequestID])
	assert.Equal(t, "jewish", line[KeyCalendar])
	assert.EqualValues(t, 2457491, line[KeyJD])
}

func TestError_AddsErrorAttribute(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	New(&buf, "error", "text")

	Warn(context.Background(), "dropped at error level")
	Error(context.Background(), "conversion failed", assert.AnError, slog.Int(KeyYear, 0))

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "conversion failed")
	assert.Contains(t, out, "error=")
	assert.Contains(t, out, "year=0")
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestID(ctx))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestSetup(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	l := Setup(&config.Config{LogLevel: "warn", LogFormat: "json"})
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default())
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
}
