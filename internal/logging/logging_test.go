package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level("debug"))
	assert.Equal(t, slog.LevelWarn, Level(" WARN "))
	assert.Equal(t, slog.LevelError, Level("error"))
	assert.Equal(t, slog.LevelInfo, Level("verbose"))
}

func TestNewTextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "k=v")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	NewJSON(&buf, "info").Info("server starting", slog.String("addr", ":8080"))
	assert.Contains(t, buf.String(), `"msg":"server starting"`)
	assert.Contains(t, buf.String(), `"addr":":8080"`)
}
