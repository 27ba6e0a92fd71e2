package store

import (
	"context"
	"sync"

	"github.com/TNRProtography/questoot/internal/engine"
)

// Store persists one snapshot per game code, overwritten in full on every
// mutation. A room never broadcasts a snapshot its store rejected.
type Store interface {
	SaveGame(ctx context.Context, code string, s engine.State) error
	// LoadGame reports false when no snapshot exists for the code.
	LoadGame(ctx context.Context, code string) (engine.State, bool, error)
	DeleteGame(ctx context.Context, code string) error
}

// Memory is the default Store: a process-local map. Good for a single
// server instance and for tests.
type Memory struct {
	mu    sync.RWMutex
	games map[string]engine.State
}

func NewMemory() *Memory {
	return &Memory{games: make(map[string]engine.State)}
}

func (m *Memory) SaveGame(_ context.Context, code string, s engine.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[code] = s
	return nil
}

func (m *Memory) LoadGame(_ context.Context, code string) (engine.State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.games[code]
	return s, ok, nil
}

func (m *Memory) DeleteGame(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, code)
	return nil
}
