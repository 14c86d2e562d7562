package memory

import (
	"context"
	"sync"
	"time"

	"github.com/minimarket/storefront/internal/core/domain"
)

type sessionEntry struct {
	token     string
	expiresAt time.Time
}

// SessionStore is the redis-less session slot used in tests and
// single-process development. Expired entries are reaped lazily on Get.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]sessionEntry)}
}

func (s *SessionStore) Put(_ context.Context, sessionID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = sessionEntry{token: token, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, sessionID)
		return "", domain.ErrSessionNotFound
	}
	return entry.token, nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}
