package events_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lorandel/Warehouse-Ramps/internal/config"
	"github.com/Lorandel/Warehouse-Ramps/internal/events"
)

func TestNewLogger(t *testing.T) {
	cfg := &config.LogConfig{
		Level:  "debug",
		Format: "json",
	}

	logger, err := events.NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.InfoLevel, "json", &buf)

	logger.WithField("truck", "123").Info("test message")

	output := buf.String()
	assert.Contains(t, output, `"truck":"123"`)
	assert.Contains(t, output, `"msg":"test message"`)
	assert.Contains(t, output, `"level":"info"`)
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.InfoLevel, "json", &buf)

	logger.WithFields(map[string]interface{}{
		"component": "lookup_service",
		"records":   42,
	}).Info("multi-field test")

	output := buf.String()
	assert.Contains(t, output, `"component":"lookup_service"`)
	assert.Contains(t, output, `"records":42`)
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.WarnLevel, "json", &buf)

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	output := buf.String()
	assert.NotContains(t, output, "dropped")
	assert.Contains(t, output, "kept")
}

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.InfoLevel, "text", &buf)

	logger.WithField("count", 3).Info("imported")

	output := buf.String()
	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "imported")
	assert.Contains(t, output, "count=3")
}

func TestLoggerFieldsDoNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := events.NewTestLogger(events.InfoLevel, "json", &buf)

	derived := base.WithField("scoped", "yes")
	base.Info("base message")

	assert.NotContains(t, buf.String(), "scoped")

	buf.Reset()
	derived.Info("derived message")
	assert.Contains(t, buf.String(), `"scoped":"yes"`)
}
