package session

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/fypdash/internal/pkg/apperrors"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
	}
}

// Name identifies the store in logs and health output
func (m *MemoryStore) Name() string { return "memory" }

// Save stores a copy of s
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = clone(s)
	return nil
}

// Load returns a copy of the stored session
func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	out := clone(&s)
	return &out, nil
}

// Delete removes a session; deleting an unknown id is not an error
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// PurgeExpired drops every session past its expiry and returns how many were removed
func (m *MemoryStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of unexpired sessions
func (m *MemoryStore) Count(_ context.Context, now time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var live int64
	for _, s := range m.sessions {
		if !s.Expired(now) {
			live++
		}
	}
	return live, nil
}

func clone(s *Session) Session {
	out := *s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
