package memory

import (
	"context"
	"sync"
	"time"

	"github.com/recibos/billing-system/internal/core/domain"
)

type sessionEntry struct {
	identity  domain.Identity
	expiresAt time.Time
}

// SessionStore is the in-process session token store. Expired entries are
// dropped lazily on Get; there is no background sweeper.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

func (s *SessionStore) Put(_ context.Context, key string, identity domain.Identity, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = sessionEntry{identity: identity, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(_ context.Context, key string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[key]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, key)
		return nil, nil
	}
	identity := entry.identity
	return &identity, nil
}

func (s *SessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}
