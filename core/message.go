package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the kind of a transcript message.
type Role string

const (
	// RoleSystem marks bootstrap messages (persona, document context).
	RoleSystem Role = "system"
	// RoleHuman marks caller-supplied turns.
	RoleHuman Role = "human"
	// RoleAI marks model answers, final or tool-requesting.
	RoleAI Role = "ai"
	// RoleTool marks tool invocation results.
	RoleTool Role = "tool"
)

// ToolCall describes a tool invocation requested by the model. Arguments is
// the serialized JSON payload exactly as the model produced it.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// Message is the closed variant over the four role kinds. Concrete types
// implement the unexported isMessage marker; consumers dispatch with an
// exhaustive type switch, never by inspecting ad hoc fields. Messages are
// immutable once appended to a log.
type Message interface {
	isMessage()
	Role() Role
}

// SystemMessage is a bootstrap instruction (persona or document context).
type SystemMessage struct {
	ID        string    `json:"id"`
	Ordinal   int       `json:"ordinal"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (SystemMessage) isMessage() {}

// Role implements Message.
func (SystemMessage) Role() Role { return RoleSystem }

// HumanMessage is one caller query.
type HumanMessage struct {
	ID        string    `json:"id"`
	Ordinal   int       `json:"ordinal"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (HumanMessage) isMessage() {}

// Role implements Message.
func (HumanMessage) Role() Role { return RoleHuman }

// AIMessage is a model answer. A non-empty ToolCalls slice means the model
// requested tool execution instead of (or in addition to) answering.
type AIMessage struct {
	ID        string     `json:"id"`
	Ordinal   int        `json:"ordinal"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (AIMessage) isMessage() {}

// Role implements Message.
func (AIMessage) Role() Role { return RoleAI }

// IsFinal reports whether this answer terminates the turn (no pending tool
// calls).
func (m AIMessage) IsFinal() bool { return len(m.ToolCalls) == 0 }

// ToolMessage is the outcome of a single tool call. ToolCallID must match a
// call id emitted by the immediately preceding AI message. IsError marks a
// stringified tool failure; the turn itself continues.
type ToolMessage struct {
	ID         string    `json:"id"`
	Ordinal    int       `json:"ordinal"`
	Content    string    `json:"content"`
	ToolCallID string    `json:"tool_call_id"`
	ToolName   string    `json:"tool_name"`
	IsError    bool      `json:"is_error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ToolMessage) isMessage() {}

// Role implements Message.
func (ToolMessage) Role() Role { return RoleTool }

// NewSystemMessage creates an unpersisted system message.
func NewSystemMessage(content string) SystemMessage {
	return SystemMessage{ID: NewID(), Content: content, CreatedAt: time.Now().UTC()}
}

// NewHumanMessage creates an unpersisted human message.
func NewHumanMessage(content string) HumanMessage {
	return HumanMessage{ID: NewID(), Content: content, CreatedAt: time.Now().UTC()}
}

// NewAIMessage creates an unpersisted ai message carrying zero or more tool
// call requests.
func NewAIMessage(content string, toolCalls []ToolCall) AIMessage {
	return AIMessage{ID: NewID(), Content: content, ToolCalls: toolCalls, CreatedAt: time.Now().UTC()}
}

// NewToolMessage creates an unpersisted tool result message answering the
// given call id.
func NewToolMessage(callID, toolName, content string, isError bool) ToolMessage {
	return ToolMessage{
		ID:         NewID(),
		Content:    content,
		ToolCallID: callID,
		ToolName:   toolName,
		IsError:    isError,
		CreatedAt:  time.Now().UTC(),
	}
}

// NewID generates a unique identifier for messages and agents.
func NewID() string { return uuid.NewString() }

// MessageID returns the identity of any message variant.
func MessageID(m Message) string {
	switch v := m.(type) {
	case SystemMessage:
		return v.ID
	case HumanMessage:
		return v.ID
	case AIMessage:
		return v.ID
	case ToolMessage:
		return v.ID
	}
	return ""
}

// MessageOrdinal returns the creation ordinal of any message variant. The
// ordinal is the ordering source of truth within an agent's transcript;
// timestamps are metadata only.
func MessageOrdinal(m Message) int {
	switch v := m.(type) {
	case SystemMessage:
		return v.Ordinal
	case HumanMessage:
		return v.Ordinal
	case AIMessage:
		return v.Ordinal
	case ToolMessage:
		return v.Ordinal
	}
	return 0
}

// MessageContent returns the textual content of any message variant.
func MessageContent(m Message) string {
	switch v := m.(type) {
	case SystemMessage:
		return v.Content
	case HumanMessage:
		return v.Content
	case AIMessage:
		return v.Content
	case ToolMessage:
		return v.Content
	}
	return ""
}

// WithOrdinal returns a copy of the message stamped with the given ordinal.
// Stores call this during the atomic append; messages already persisted are
// never restamped.
func WithOrdinal(m Message, ordinal int) Message {
	switch v := m.(type) {
	case SystemMessage:
		v.Ordinal = ordinal
		return v
	case HumanMessage:
		v.Ordinal = ordinal
		return v
	case AIMessage:
		v.Ordinal = ordinal
		return v
	case ToolMessage:
		v.Ordinal = ordinal
		return v
	}
	return m
}
