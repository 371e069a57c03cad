package agent

import (
	"context"
	"sync"
)

// agentLocks serializes turns per agent. Each agent id maps to a one-slot
// semaphore so a second turn for the same agent waits until the first has
// committed or failed, while turns for different agents proceed in parallel.
type agentLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newAgentLocks() *agentLocks {
	return &agentLocks{slots: make(map[string]chan struct{})}
}

// acquire blocks until the agent's slot is free or ctx is done. On success it
// returns a release func that must be called exactly once.
func (l *agentLocks) acquire(ctx context.Context, agentID string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[agentID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[agentID] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// forget drops the agent's slot once the agent is gone. An in-flight holder
// keeps its own channel reference, so release stays safe.
func (l *agentLocks) forget(agentID string) {
	l.mu.Lock()
	delete(l.slots, agentID)
	l.mu.Unlock()
}
