package session

import (
	"context"
	"sync"
)

// MemoryStore хранит сессию только в памяти процесса
type MemoryStore struct {
	mu     sync.Mutex
	state  State
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Read(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *MemoryStore) Write(ctx context.Context, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.normalize()
	m.writes++
	return nil
}

// Writes - число записей, для тестов
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
