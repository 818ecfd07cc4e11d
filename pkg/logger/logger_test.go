package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelInfo, "json")

	l.Info("session created", "sessionID", "board-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "session created", line["msg"])
	assert.Equal(t, "board-1", line["sessionID"])
	assert.Equal(t, "INFO", line["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelWarn, "text")

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithKeepsAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelDebug, "json").With("component", "hub")

	l.Debug("tick")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hub", line["component"])
}
