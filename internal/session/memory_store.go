package session

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
)

// MemoryStore is an in-process session store used in tests and local runs.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]Session{}}
}

func (s *MemoryStore) Save(_ context.Context, token string, sess Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = sess
	return nil
}

func (s *MemoryStore) Load(_ context.Context, token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session not found")
	}
	return sess, nil
}

func (s *MemoryStore) Clear(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
