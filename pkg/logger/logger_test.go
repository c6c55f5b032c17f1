package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("debug", &buf)

	l.Info("history fetched",
		String("symbol", "AAPL"),
		Int("bars", 21),
		Duration("duration_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "history fetched", entry["message"])
	assert.Equal(t, "AAPL", entry["symbol"])
	assert.EqualValues(t, 21, entry["bars"])
	assert.EqualValues(t, 1500, entry["duration_ms"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("warn", &buf)

	l.Debug("dropped")
	l.Info("dropped too")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithAddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("info", &buf).With(String("component", "viewer"))

	l.Info("ready")
	assert.Contains(t, buf.String(), `"component":"viewer"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Format: "json", Output: "stdout"})
	assert.Error(t, err)
}
