// Package session holds the in-memory bearer token store. Tokens are
// opaque UUID strings mapped to the owning user and an absolute expiry
// instant. The store is process-local: tokens are not persisted and are
// not replicated across nodes.
package session

import (
	"sync"
	"time"

	"otp-service/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultTTL = 30 * time.Minute

type tokenInfo struct {
	user      *entity.User
	expiresAt time.Time
}

// Store is constructed once at startup and passed by reference to every
// request path. Every operation is a single locked map access; unrelated
// requests never hold the lock across each other's work.
type Store struct {
	mu     sync.RWMutex
	tokens map[string]tokenInfo
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
}

func NewStore(ttl time.Duration, log *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		tokens: make(map[string]tokenInfo),
		ttl:    ttl,
		now:    time.Now,
		log:    log.With(zap.String("component", "session_store")),
	}
}

// Issue generates a fresh opaque token for the user and records it with
// an absolute expiry of now + TTL.
func (s *Store) Issue(user *entity.User) (string, time.Time) {
	token := uuid.NewString()
	expiresAt := s.now().Add(s.ttl)

	s.mu.Lock()
	s.tokens[token] = tokenInfo{user: user, expiresAt: expiresAt}
	s.mu.Unlock()

	s.log.Info("Session token issued",
		zap.String("username", user.Username),
		zap.Time("expires_at", expiresAt),
	)
	return token, expiresAt
}

// Validate reports whether the token exists and has not expired. An
// expired token is evicted on this first look, not on a schedule.
func (s *Store) Validate(token string) bool {
	s.mu.RLock()
	info, ok := s.tokens[token]
	s.mu.RUnlock()

	if !ok {
		return false
	}

	// Expiry at or before now counts as expired.
	if !info.expiresAt.After(s.now()) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Issue could have
		// replaced the entry with a fresh one.
		if cur, ok := s.tokens[token]; ok && !cur.expiresAt.After(s.now()) {
			delete(s.tokens, token)
		}
		s.mu.Unlock()
		s.log.Warn("Expired session token evicted", zap.Time("expired_at", info.expiresAt))
		return false
	}

	return true
}

// Resolve returns the user bound to a valid token, or nil.
func (s *Store) Resolve(token string) *entity.User {
	if !s.Validate(token) {
		return nil
	}

	s.mu.RLock()
	info, ok := s.tokens[token]
	s.mu.RUnlock()

	if !ok {
		return nil
	}
	return info.user
}

// Revoke removes the token unconditionally and reports whether it was
// present.
func (s *Store) Revoke(token string) bool {
	s.mu.Lock()
	_, ok := s.tokens[token]
	delete(s.tokens, token)
	s.mu.Unlock()

	if ok {
		s.log.Info("Session token revoked")
	} else {
		s.log.Warn("Revoke of unknown session token")
	}
	return ok
}

// Len reports the number of live entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
