// Package memory provides an in-memory RunStore for tests and
// single-process hosts.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/smallnest/dagflow/store"
)

// MemoryRunStore implements store.RunStore with a map guarded by a mutex.
type MemoryRunStore struct {
	mu      sync.RWMutex
	records map[string]*store.RunRecord
}

var _ store.RunStore = (*MemoryRunStore)(nil)

// NewMemoryRunStore creates an empty in-memory store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		records: make(map[string]*store.RunRecord),
	}
}

// Save stores a record, replacing any record with the same ID.
func (s *MemoryRunStore) Save(ctx context.Context, record *store.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.records[record.ID] = &cp
	return nil
}

// Load retrieves a record by run ID.
func (s *MemoryRunStore) Load(ctx context.Context, runID string) (*store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[runID]
	if !ok {
		return nil, fmt.Errorf("run record not found: %s", runID)
	}
	cp := *record
	return &cp, nil
}

// List returns all records for a graph name.
func (s *MemoryRunStore) List(ctx context.Context, graphName string) ([]*store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*store.RunRecord
	for _, record := range s.records {
		if record.Graph == graphName {
			cp := *record
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Delete removes a record.
func (s *MemoryRunStore) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, runID)
	return nil
}

// Clear removes all records for a graph name.
func (s *MemoryRunStore) Clear(ctx context.Context, graphName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, record := range s.records {
		if record.Graph == graphName {
			delete(s.records, id)
		}
	}
	return nil
}
