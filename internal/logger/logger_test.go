package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "cli", "debug")

	l.Info().Msg("hello")

	entry := decode(t, &buf)
	assert.Equal(t, "cli", entry["role"])
	assert.Equal(t, "hello", entry["message"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "func")
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "cli", "warn")

	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestNewLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "cli", "loud")

	l.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())
	l.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestWith_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "cli", "info").With("auth")

	l.Info().Msg("x")
	assert.Equal(t, "auth", decode(t, &buf)["component"])
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dreamlock.log")
	l, closer := NewFileLogger(path, "cli", "info")
	require.NotNil(t, l)
	l.Info().Msg("to file")
	require.NoError(t, closer.Close())
	assert.FileExists(t, path)
}

func TestNop(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	l.Error().Msg("nothing")
}
