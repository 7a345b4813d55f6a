package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory.
// Sessions do not survive restarts; use it for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Session
	tokenID map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Session),
		tokenID: make(map[string]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	if s.Token == "" {
		return ErrInvalidToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID[s.ID] = s.Clone()
	m.tokenID[s.Token] = s.ID
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.byID[m.tokenID[token]]
	if !ok || stored.Token != token {
		return nil, ErrNotFound
	}
	if stored.IsExpired() {
		return nil, ErrExpired
	}
	return stored.Clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.byID[s.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Token != s.Token {
		delete(m.tokenID, stored.Token)
	}

	m.byID[s.ID] = s.Clone()
	m.tokenID[s.Token] = s.ID
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.delete(id)
	return nil
}

func (m *MemoryStore) DeleteByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.byID {
		if s.User() == userID {
			m.delete(id)
		}
	}
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, id string, lastActiveAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.LastActiveAt = lastActiveAt
	return nil
}

// DeleteExpired removes sessions past their expiration time.
func (m *MemoryStore) DeleteExpired(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, s := range m.byID {
		if s.IsExpired() {
			m.delete(id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

func (m *MemoryStore) delete(id string) {
	if s, ok := m.byID[id]; ok {
		delete(m.tokenID, s.Token)
		delete(m.byID, id)
	}
}
