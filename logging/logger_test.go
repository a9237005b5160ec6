package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(t *testing.T, level LogLevel) (*CallLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = buf
	return NewLogger(cfg), buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestCallLogger_KeyValueArgsBecomeAttrs(t *testing.T) {
	logger, buf := captureLogger(t, LogLevelInfo)

	logger.Info("orchestrator ready", "agents", 7, "state", "ready")

	entry := lastEntry(t, buf)
	assert.Equal(t, "orchestrator ready", entry["msg"])
	assert.Equal(t, float64(7), entry["agents"])
	assert.Equal(t, "ready", entry["state"])
}

func TestCallLogger_DanglingValueKept(t *testing.T) {
	logger, buf := captureLogger(t, LogLevelInfo)

	logger.Info("partial", "key", "value", "dangling")

	entry := lastEntry(t, buf)
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "dangling", entry["arg"])
}

func TestCallLogger_LevelFiltering(t *testing.T) {
	logger, buf := captureLogger(t, LogLevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	entry := lastEntry(t, buf)
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestCallLogger_WithClonesAttachAttrs(t *testing.T) {
	logger, buf := captureLogger(t, LogLevelInfo)

	logger.WithComponent("orchestrator").WithCall("call-1").WithContext("priority", 5).Info("dispatched")

	entry := lastEntry(t, buf)
	assert.Equal(t, "orchestrator", entry["component"])
	assert.Equal(t, "call-1", entry["call_id"])
	assert.Equal(t, float64(5), entry["priority"])

	// The original logger is untouched by the clones.
	logger.Info("plain")
	entry = lastEntry(t, buf)
	assert.NotContains(t, entry, "component")
	assert.NotContains(t, entry, "call_id")
}

func TestCallLogger_LogAgentTurn(t *testing.T) {
	logger, buf := captureLogger(t, LogLevelInfo)

	logger.LogAgentTurn("natural_language_agent", "greeting", 0.8, 0)

	entry := lastEntry(t, buf)
	assert.Equal(t, "Agent turn completed", entry["msg"])
	assert.Equal(t, "natural_language_agent", entry["agent_id"])
	assert.Equal(t, "greeting", entry["intent"])
	assert.Equal(t, 0.8, entry["confidence"])
}
