package userdata

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Document)}
}

func (m *MemoryRepository) Load(ctx context.Context, key string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.store[key]
	if !ok {
		return nil, nil
	}
	// return a shallow copy so callers cannot mutate stored state
	cp := *d
	return &cp, nil
}

func (m *MemoryRepository) Save(ctx context.Context, key string, doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.store[key] = &cp
	return nil
}
