package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Console: true, Output: &buf})
	log.Info("hidden")
	log.Warn("texture skipped", zap.String("texture", "cones #1"))
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "texture skipped")
	assert.Contains(t, buf.String(), "cones #1")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relief.log")
	log := New(Options{Level: "debug", File: DefaultFileOptions(path)})
	log.Debug("cell size resolved", zap.Float64("cellSize", 2.5))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cellSize":2.5`)
}

func TestNoOutputIsNop(t *testing.T) {
	log := New(Options{})
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))

	Init(Options{})
	assert.NotNil(t, L())
}
