package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{LogLevel: "warn", Environment: "test"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", slog.String("game", "Foo"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "Foo", entry["game"])
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "test", entry["env"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(Config{LogFormat: "text"}, &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	obs := NewWithWriter(Config{}, &buf)

	require.NotNil(t, obs.Tracer)
	families, err := obs.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
