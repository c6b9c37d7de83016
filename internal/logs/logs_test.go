package logs_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ADILE66/OptilifeAI-sub001/internal/logs"
)

func TestNewWithWriter_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logs.NewWithWriter("info", false, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("badge earned", zap.String("badge", "first-water-log"))
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "badge earned", entry["msg"])
	assert.Equal(t, "first-water-log", entry["badge"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewWithWriter_PrettyIsNotJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logs.NewWithWriter("debug", true, &buf)
	require.NoError(t, err)

	logger.Debug("loaded")
	assert.Contains(t, buf.String(), "loaded")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestParseLevel(t *testing.T) {
	lvl, err := logs.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zap.WarnLevel, lvl.Level())

	lvl, err = logs.ParseLevel(" ERROR ")
	require.NoError(t, err)
	assert.Equal(t, zap.ErrorLevel, lvl.Level())

	_, err = logs.ParseLevel("loud")
	assert.Error(t, err)
}
