package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostdiag/internal/config"
)

func TestLogWritesFieldsAsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "DEBUG")

	l.Log("INFO", "disk probe finished", "write_mbps", "512.34", "size", 1024)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "disk probe finished", entry["message"])
	assert.Equal(t, "512.34", entry["write_mbps"])
	assert.EqualValues(t, 1024, entry["size"])
}

func TestLogFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "WARN")

	l.Log("DEBUG", "hidden")
	l.Log("INFO", "hidden too")
	assert.Zero(t, buf.Len())

	l.Log("ERROR", "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNilAndNopLoggersAreSilent(t *testing.T) {
	var l *Logger
	l.Log("ERROR", "nothing")
	assert.NoError(t, l.Close())

	Nop().Log("ERROR", "nothing")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARNING "))
	assert.Equal(t, zerolog.FatalLevel, ParseLevel("FATAL"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestNewLoggerWritesFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "DEBUG"
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "hostdiag.log")

	l, err := NewLogger(cfg, false)
	require.NoError(t, err)
	l.Log("DEBUG", "collecting host info", "pid", 42)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(cfg.Logging.File)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"message":"collecting host info"`)
	assert.Contains(t, lines[0], `"pid":42`)
}
