package common

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "debug", "console"))

	slog.Debug("probe started", "target", "http://localhost:8001")
	assert.Contains(t, buf.String(), "probe started")
	assert.Contains(t, buf.String(), "target=http://localhost:8001")
}

func TestSetupLoggerToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "info", "json"))

	slog.Info("run recorded", "run_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run recorded", entry["msg"])
	assert.EqualValues(t, 7, entry["run_id"])
}

func TestSetupLoggerToLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "warn", "console"))

	slog.Info("too quiet to surface")
	assert.Empty(t, buf.String())

	slog.Warn("loud enough")
	assert.Contains(t, buf.String(), "loud enough")
}

func TestSetupLoggerToRejectsBadConfig(t *testing.T) {
	var buf bytes.Buffer

	err := SetupLoggerTo(&buf, "verbose", "console")
	require.ErrorIs(t, err, ErrInvalidConfig)

	err = SetupLoggerTo(&buf, "info", "xml")
	require.ErrorIs(t, err, ErrInvalidConfig)
}
