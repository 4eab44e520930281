package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(""))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CIPHERWEAVE_LOG_LEVEL", "debug")
	t.Setenv("CIPHERWEAVE_LOG_JSON", "true")
	got := FromEnv(Options{Level: "warn"})
	assert.Equal(t, "debug", got.Level)
	assert.True(t, got.JSON)
}

func TestConfigure_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "info", JSON: true, Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	L().Info("step applied", "cipher", "caesar")
	assert.Contains(t, buf.String(), `"cipher":"caesar"`)

	L().Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}
