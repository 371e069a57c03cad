package contract

import (
	"context"
	"fmt"
	"sync"

	"github.com/lexroom/contractagent/core"
)

// InMemoryStore is a volatile Store holding contract records, their document
// text and validation reports in process local maps. Safe for concurrent
// access.
type InMemoryStore struct {
	mu        sync.RWMutex
	contracts map[string]*Contract
	contents  map[string]string
	reports   map[string]*ValidationReport
}

// NewInMemoryStore constructs an empty in-memory contract store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		contracts: make(map[string]*Contract),
		contents:  make(map[string]string),
		reports:   make(map[string]*ValidationReport),
	}
}

// Put seeds a contract record together with its document text.
func (s *InMemoryStore) Put(c *Contract, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *c
	s.contracts[c.ID] = &clone
	s.contents[c.ID] = content
}

// Get returns a copy of the record or core.ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, contractID string) (*Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[contractID]
	if !ok {
		return nil, fmt.Errorf("contract %s: %w", contractID, core.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

// Content returns the document text or core.ErrNotFound.
func (s *InMemoryStore) Content(_ context.Context, contractID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.contents[contractID]
	if !ok {
		return "", fmt.Errorf("contract %s content: %w", contractID, core.ErrNotFound)
	}
	return text, nil
}

// Report returns the stored validation report or core.ErrNotFound.
func (s *InMemoryStore) Report(_ context.Context, contractID string) (*ValidationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[contractID]
	if !ok {
		return nil, fmt.Errorf("validation report for contract %s: %w", contractID, core.ErrNotFound)
	}
	clone := *r
	return &clone, nil
}

// SaveReport stores or replaces the validation report.
func (s *InMemoryStore) SaveReport(_ context.Context, contractID string, report *ValidationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[contractID]; !ok {
		return fmt.Errorf("contract %s: %w", contractID, core.ErrNotFound)
	}
	clone := *report
	s.reports[contractID] = &clone
	return nil
}
