package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: slog.LevelInfo, Output: &buf})

	logger.Info("agent.turn.committed", "agent_id", "a-1", "messages", 4)
	logger.Debug("suppressed", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "agent.turn.committed", record["msg"])
	assert.Equal(t, "a-1", record["agent_id"])
	assert.Equal(t, float64(4), record["messages"])
}

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: slog.LevelDebug, Format: "text", Output: &buf})

	logger.Debug("tool.call", "tool", "get_contract_data")
	assert.Contains(t, buf.String(), "tool.call")
	assert.Contains(t, buf.String(), "tool=get_contract_data")
}

func TestNoOpLoggerIsSilent(t *testing.T) {
	var logger Logger = NoOpLogger{}
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
}
