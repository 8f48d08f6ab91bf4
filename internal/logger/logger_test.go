package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "json"}, &buf)
	l.Info().Str("server", "1.2.3.4:27016").Msg("Resolved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Resolved", entry["message"])
	assert.Equal(t, "1.2.3.4:27016", entry["server"])
	assert.Contains(t, entry, "time")
}

func TestNew_ConsoleHasNoColorOnBuffers(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "console"}, &buf)
	l.Warn().Msg("Server may be restarting")

	assert.Contains(t, buf.String(), "Server may be restarting")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestSetup_FileOutputAndLevel(t *testing.T) {
	origLogger, origLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
	})

	path := filepath.Join(t.TempDir(), "check.log")
	Setup(Config{Level: "warn", Format: "json", Output: path})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestSetup_BadLevelFallsBackToInfo(t *testing.T) {
	origLogger, origLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
	})

	Setup(Config{Level: "loud", Format: "json", Output: "stderr"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestOpenOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, openOutput("stdout"))
	assert.Equal(t, os.Stderr, openOutput("stderr"))
	assert.Equal(t, os.Stderr, openOutput(filepath.Join(t.TempDir(), "missing", "dir", "x.log")))
}
