// Package preferences keeps the per-user UI state: pinned folders and
// favorite queries, each stored as a whole JSON array under a fixed key.
package preferences

import (
	"sync"
)

// Repository is the key/value store preferences are persisted in.
// storage.Provider satisfies it.
type Repository interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryRepository is an in-process Repository, used for ephemeral sessions and tests.
type MemoryRepository struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: map[string]string{}}
}

func (m *MemoryRepository) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryRepository) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryRepository) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
