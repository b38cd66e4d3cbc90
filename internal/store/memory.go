package store

import (
	"context"
	"sync"
	"time"

	"musicwordle/internal/types"
)

// Memory keeps sessions in a map. Everything is lost on restart.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]types.GameState
	timeout  time.Duration
	now      func() time.Time
}

func NewMemory(timeout time.Duration) *Memory {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Memory{
		sessions: make(map[string]types.GameState),
		timeout:  timeout,
		now:      time.Now,
	}
}

func (m *Memory) Load(_ context.Context, sessionID string) (types.GameState, error) {
	if err := validateID(sessionID); err != nil {
		return types.GameState{}, ErrNotFound
	}

	m.mu.RLock()
	state, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return types.GameState{}, ErrNotFound
	}
	if m.now().Sub(state.LastAccessTime) > m.timeout {
		m.mu.Lock()
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		return types.GameState{}, ErrNotFound
	}
	return state.Clone(), nil
}

func (m *Memory) Save(_ context.Context, sessionID string, state types.GameState) error {
	if err := validateID(sessionID); err != nil {
		return err
	}
	stored := state.Clone()
	stored.LastAccessTime = m.now()

	m.mu.Lock()
	m.sessions[sessionID] = stored
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Cleanup(_ context.Context) (int, error) {
	cutoff := m.now().Add(-m.timeout)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, state := range m.sessions {
		if state.LastAccessTime.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Memory) Close() error { return nil }
