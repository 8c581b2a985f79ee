package dataset

import (
	"context"
	"sort"
	"sync"

	"github.com/voca9204/findex/internal/domain"
	"github.com/voca9204/findex/internal/domain/record"
)

// Memory is an in-process dataset store used when no backing store is
// configured. Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	sets map[string][]record.Record
}

// NewMemory creates an empty in-memory dataset store.
func NewMemory() *Memory {
	return &Memory{sets: make(map[string][]record.Record)}
}

// Put stores a named dataset, replacing any previous version.
func (m *Memory) Put(_ context.Context, name string, records []record.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[name] = records
	return nil
}

// Get retrieves a named dataset.
func (m *Memory) Get(_ context.Context, name string) ([]record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records, ok := m.sets[name]
	if !ok {
		return nil, domain.ErrDatasetNotFound
	}
	return records, nil
}

// Delete removes a named dataset.
func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets, name)
	return nil
}

// List returns all dataset names, sorted.
func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sets))
	for name := range m.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
