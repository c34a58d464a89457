package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, lvl)

	lvl, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Config{Level: "info", Format: FormatJSON}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	log.Debug().Msg("hidden")
	log.Info().Str("k", "v").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestNewConsoleWithoutTerminalHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Config{Level: "warn"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	log.Warn().Msg("careful")
	assert.Contains(t, buf.String(), "careful")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "finddd.log")
	cfg := DefaultConfig()
	cfg.Level = "info"
	cfg.Format = FormatJSON
	cfg.File.Path = path

	var buf bytes.Buffer
	log, closer, err := New(cfg, &buf)
	require.NoError(t, err)

	log.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to file"))
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, closer, err := New(Config{Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
	assert.NotNil(t, closer)
}
