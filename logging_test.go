package ogdch

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLogLevel(input), "level %q", input)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("count cache write failed", "key", "datasets")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "count cache write failed")
	assert.Contains(t, out, "key=datasets")
	assert.NotContains(t, out, "\x1b[", "buffers get plain output")
}
