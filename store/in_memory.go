package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/lexroom/contractagent/core"
)

// InMemoryStore keeps agents and their transcripts in a process local map.
// Returned records are copies to prevent external mutation of internal
// state. Ordinal allocation happens under the store lock, so a batch append
// is atomic with respect to concurrent readers and writers.
type InMemoryStore struct {
	mu     sync.RWMutex
	agents map[string]*agentRecord
}

type agentRecord struct {
	agent    *core.Agent
	messages []core.Message
	next     int // next ordinal to allocate
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{agents: make(map[string]*agentRecord)}
}

// CreateAgent stores a new agent record with an empty transcript.
func (s *InMemoryStore) CreateAgent(_ context.Context, agent *core.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[agent.ID]; ok {
		return fmt.Errorf("agent %s already exists", agent.ID)
	}
	s.agents[agent.ID] = &agentRecord{agent: agent.Clone()}
	return nil
}

// GetAgent returns a copy of the record or core.ErrNotFound.
func (s *InMemoryStore) GetAgent(_ context.Context, agentID string) (*core.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.agents[agentID]
	if !ok {
		return nil, fmt.Errorf("agent %s: %w", agentID, core.ErrNotFound)
	}
	return rec.agent.Clone(), nil
}

// ListAgents returns copies of all agents owned by ownerID.
func (s *InMemoryStore) ListAgents(_ context.Context, ownerID string) ([]*core.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*core.Agent
	for _, rec := range s.agents {
		if rec.agent.OwnerID == ownerID {
			out = append(out, rec.agent.Clone())
		}
	}
	return out, nil
}

// RenameAgent updates the display name.
func (s *InMemoryStore) RenameAgent(_ context.Context, agentID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.agents[agentID]
	if !ok {
		return fmt.Errorf("agent %s: %w", agentID, core.ErrNotFound)
	}
	rec.agent.Name = name
	return nil
}

// DeleteAgent removes the record and its whole transcript.
func (s *InMemoryStore) DeleteAgent(_ context.Context, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[agentID]; !ok {
		return fmt.Errorf("agent %s: %w", agentID, core.ErrNotFound)
	}
	delete(s.agents, agentID)
	return nil
}

// AppendMessages stamps the batch with strictly increasing ordinals and
// appends it in one step. Either the whole batch lands or, on a missing
// agent, nothing does.
func (s *InMemoryStore) AppendMessages(_ context.Context, agentID string, msgs []core.Message) ([]core.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.agents[agentID]
	if !ok {
		return nil, fmt.Errorf("agent %s: %w", agentID, core.ErrNotFound)
	}
	stamped := make([]core.Message, len(msgs))
	for i, m := range msgs {
		stamped[i] = core.WithOrdinal(m, rec.next)
		rec.next++
	}
	rec.messages = append(rec.messages, stamped...)
	return stamped, nil
}

// LoadMessages returns a copy of the transcript in ordinal order.
func (s *InMemoryStore) LoadMessages(_ context.Context, agentID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.agents[agentID]
	if !ok {
		return nil, fmt.Errorf("agent %s: %w", agentID, core.ErrNotFound)
	}
	out := make([]core.Message, len(rec.messages))
	copy(out, rec.messages)
	return out, nil
}
