package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSONHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	log, level, err := New(Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("exit fallback elapsed", zap.Int("pending", 1))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "exit fallback elapsed", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.EqualValues(t, 1, entry["pending"])

	level.SetLevel(zapcore.InfoLevel)
	buf.Reset()
	log.Info("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestNew_VerboseAndDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log, level, err := New(Options{Level: "error", Verbose: true, Development: true, Writer: &buf})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	log.Debug("entering", zap.String("scope", "header"))
	assert.Contains(t, buf.String(), "entering")
	assert.Contains(t, buf.String(), "header")
}

func TestNew_DefaultsToInfo(t *testing.T) {
	_, level, err := New(Options{Writer: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level.Level())
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	require.Error(t, err)
}
