package dal

import (
	"sync"
)

// MemoryDAL implements TeamDAL using in-memory storage
type MemoryDAL struct {
	typed
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryDAL creates a new in-memory data access layer
func NewMemoryDAL() *MemoryDAL {
	m := &MemoryDAL{
		blobs: make(map[string][]byte),
	}
	m.typed = typed{store: m}
	return m
}

func (m *MemoryDAL) get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy to avoid callers aliasing our buffer
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryDAL) put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := make([]byte, len(value))
	copy(data, value)
	m.blobs[key] = data
	return nil
}

func (m *MemoryDAL) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs = make(map[string][]byte)
	return nil
}

func (m *MemoryDAL) Close() error {
	return nil
}
