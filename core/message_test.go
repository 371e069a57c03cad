package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageConstructors(t *testing.T) {
	sys := NewSystemMessage("persona")
	human := NewHumanMessage("question")
	ai := NewAIMessage("answer", nil)
	toolCall := NewAIMessage("", []ToolCall{{ID: "tc-1", Name: "get_contract_data", Arguments: "{}"}})
	toolMsg := NewToolMessage("tc-1", "get_contract_data", `{"x":1}`, false)

	assert.Equal(t, RoleSystem, sys.Role())
	assert.Equal(t, RoleHuman, human.Role())
	assert.Equal(t, RoleAI, ai.Role())
	assert.Equal(t, RoleAI, toolCall.Role())
	assert.Equal(t, RoleTool, toolMsg.Role())

	assert.True(t, ai.IsFinal())
	assert.False(t, toolCall.IsFinal())

	for _, m := range []Message{sys, human, ai, toolCall, toolMsg} {
		assert.NotEmpty(t, MessageID(m))
	}
	assert.Equal(t, "tc-1", toolMsg.ToolCallID)
	assert.False(t, toolMsg.IsError)
}

func TestWithOrdinal(t *testing.T) {
	msgs := []Message{
		NewSystemMessage("s"),
		NewHumanMessage("h"),
		NewAIMessage("a", nil),
		NewToolMessage("tc", "tool", "out", true),
	}
	for i, m := range msgs {
		stamped := WithOrdinal(m, i+10)
		assert.Equal(t, i+10, MessageOrdinal(stamped))
		// The original is untouched.
		assert.Equal(t, 0, MessageOrdinal(m))
		assert.Equal(t, MessageID(m), MessageID(stamped))
		assert.Equal(t, MessageContent(m), MessageContent(stamped))
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}
