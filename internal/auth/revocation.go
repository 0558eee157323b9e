package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationStore tracks access tokens invalidated before their natural
// expiry. Revoke must be idempotent.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RevocationPurger is implemented by stores that can drop entries for
// tokens that have expired anyway.
type RevocationPurger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// MemoryRevocationStore keeps revoked tokens in process memory. Entries are
// lost on restart, so it only suits single-instance deployments and tests.
type MemoryRevocationStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{tokens: make(map[string]time.Time)}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		s.tokens[token] = expiresAt
	}
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok, nil
}

// PurgeExpired drops entries whose token expired before the given time and
// returns how many were removed.
func (s *MemoryRevocationStore) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, exp := range s.tokens {
		if exp.Before(before) {
			delete(s.tokens, token)
			n++
		}
	}
	return n, nil
}
