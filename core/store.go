package core

import "context"

// AgentStore persists agent records.
type AgentStore interface {
	// CreateAgent stores a new record. The id must not already exist.
	CreateAgent(ctx context.Context, agent *Agent) error

	// GetAgent returns the record or ErrNotFound.
	GetAgent(ctx context.Context, agentID string) (*Agent, error)

	// ListAgents returns all agents owned by ownerID.
	ListAgents(ctx context.Context, ownerID string) ([]*Agent, error)

	// RenameAgent updates the mutable display name.
	RenameAgent(ctx context.Context, agentID, name string) error

	// DeleteAgent removes the record and its entire message log.
	DeleteAgent(ctx context.Context, agentID string) error
}

// MessageLog is the append-only transcript boundary. Messages are immutable
// once appended; individual update or delete does not exist.
type MessageLog interface {
	// AppendMessages durably stores the batch with strictly increasing
	// ordinals allocated by the store, or stores nothing at all. Ties within
	// one batch keep insertion order. Returns the ordinal-stamped copies.
	// Fails with ErrNotFound if the agent does not exist.
	AppendMessages(ctx context.Context, agentID string, msgs []Message) ([]Message, error)

	// LoadMessages returns the full transcript in ordinal order, or
	// ErrNotFound if the agent does not exist.
	LoadMessages(ctx context.Context, agentID string) ([]Message, error)
}

// Store combines agent records and their message logs behind one
// persistence boundary.
type Store interface {
	AgentStore
	MessageLog
}
