// Package session provides the server-side session store and the signed
// cookie that carries the session ID to the browser.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

// DefaultTTL is the absolute session lifetime when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

const sweepInterval = time.Minute

// MemoryStore is an expiring in-process session store keyed by opaque IDs.
// Expiry is absolute: the deadline is set at creation and never extended.
// Expired entries are removed lazily on Get and swept on Create.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*domain.Session
	ttl       time.Duration
	lastSweep time.Time

	// now is swappable for tests.
	now func() time.Time
}

var _ ports.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a fresh session snapshotting the user's identity and role.
func (s *MemoryStore) Create(_ context.Context, user *domain.User) (*domain.Session, error) {
	now := s.now().UTC()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.sessions[sess.ID] = sess

	copy := *sess
	return &copy, nil
}

// Get returns the session or domain.ErrNotAuthenticated when the ID is
// unknown or the session has expired. Expired entries are deleted.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, domain.ErrNotAuthenticated
	}

	copy := *sess
	return &copy, nil
}

// Delete invalidates a session; unknown IDs are a no-op.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live entries. Intended for tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
		}
	}
}
