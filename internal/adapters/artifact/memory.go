package artifact

import (
	"context"
	"sync"
)

// DefaultMemoryEntries bounds the in-memory store.
const DefaultMemoryEntries = 512

// MemoryStore keeps the most recent artifacts in memory, evicting the oldest first.
type MemoryStore struct {
	mu    sync.Mutex
	max   int
	order []string
	items map[string][]byte
}

// NewMemoryStore returns a store holding at most max artifacts.
// PRE: max > 0, otherwise DefaultMemoryEntries is used
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = DefaultMemoryEntries
	}
	return &MemoryStore{max: max, items: make(map[string][]byte)}
}

// Put stores a copy of data under key, replacing any existing value.
func (m *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	if _, err := Owner(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; !ok {
		m.order = append(m.order, key)
	}
	m.items[key] = append([]byte(nil), data...)

	for len(m.order) > m.max {
		delete(m.items, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

// Get returns the artifact stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

// Len returns the number of stored artifacts.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
