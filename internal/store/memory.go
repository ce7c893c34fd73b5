package store

import (
	"context"
	"sync"
)

// Memory is a map-backed slot store for tests and throwaway runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string

	// FailWrites makes every Set fail with this error when non-nil.
	FailWrites error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
