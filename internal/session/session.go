// Package session keeps authenticated sessions in process memory:
// a ULID token maps to a user id until the session expires or is
// destroyed. Like the rest of the system, sessions reset on restart.
package session

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session is one live login.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Manager issues and resolves session tokens.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time // swapped in tests
}

// NewManager creates a Manager with the given session TTL.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a fresh token for the given user.
func (m *Manager) Create(userID int64) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{
		Token:     ulid.Make().String(),
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}
	m.sessions[s.Token] = s
	return s
}

// Lookup resolves a token to its session. Expired sessions are dropped
// lazily on access.
func (m *Manager) Lookup(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, false
	}
	return s, true
}

// Destroy removes a single session. Unknown tokens are a no-op.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// DestroyUser removes every session belonging to the given user. Used
// when an administrator deletes an account.
func (m *Manager) DestroyUser(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
}
