package kvstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Non-browser targets and tests use it as the
// local persistence backend.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
	lists map[string][][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		slots: make(map[string][]byte),
		lists: make(map[string][][]byte),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.slots[key] = v
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.slots, key)
	return nil
}

func (m *Memory) Append(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.lists[key] = append(m.lists[key], v)
	return nil
}

func (m *Memory) List(_ context.Context, key string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.lists[key]
	out := make([][]byte, len(src))
	for i, v := range src {
		c := make([]byte, len(v))
		copy(c, v)
		out[i] = c
	}
	return out, nil
}
