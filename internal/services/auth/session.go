// filepath: internal/services/auth/session.go
package auth

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Session is a logged-in admin session.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStore keeps sessions in memory with a fixed expiry.
type SessionStore struct {
	cache   *cache.Cache
	timeout time.Duration
}

// NewSessionStore creates a store whose sessions expire timeout after creation.
func NewSessionStore(timeout time.Duration) *SessionStore {
	return &SessionStore{
		cache:   cache.New(timeout, timeout),
		timeout: timeout,
	}
}

// Create issues a new random token for s.
func (st *SessionStore) Create(s Session) (Session, error) {
	token, err := GenerateSecret()
	if err != nil {
		return Session{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	s.Token = token
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	st.cache.Set(token, s, cache.DefaultExpiration)
	return s, nil
}

// Get returns the live session for token.
func (st *SessionStore) Get(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	v, found := st.cache.Get(token)
	if !found {
		return Session{}, ErrNoSession
	}
	return v.(Session), nil
}

// Destroy ends the session. Unknown tokens are ignored.
func (st *SessionStore) Destroy(token string) {
	st.cache.Delete(token)
}

// Count returns the number of live sessions.
func (st *SessionStore) Count() int {
	return st.cache.ItemCount()
}
