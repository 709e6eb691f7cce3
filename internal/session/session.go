// Package session keeps logged-in operators server side.
//
// A login creates a Session holding the backend bearer token and the user's
// profile. The browser only sees an opaque session ID in a cookie. Sessions
// expire at the token's own exp claim or after the configured TTL, whichever
// comes first. Logout deletes the session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/JonMunkholm/hireboard/internal/backend"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for unknown session IDs.
	ErrNotFound = errors.New("unauthorized: no session")

	// ErrExpired is returned for sessions past their expiry.
	ErrExpired = errors.New("session expired")
)

// Session is one logged-in operator.
type Session struct {
	ID             string         `json:"-"`
	Token          string         `json:"-"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	DepartmentName string         `json:"departmentName,omitempty"`
	RoleName       string         `json:"roleName,omitempty"`
	Menus          []backend.Menu `json:"menus"`
	CreatedAt      time.Time      `json:"createdAt"`
	ExpiresAt      time.Time      `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Manager stores sessions in memory.
type Manager struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager whose sessions live at most ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session for a successful login.
func (m *Manager) Create(email string, login *backend.LoginData) (*Session, error) {
	now := m.now()

	expires := now.Add(m.ttl)
	if exp, ok := tokenExpiry(login.Token); ok && exp.Before(expires) {
		expires = exp
	}
	if !now.Before(expires) {
		return nil, ErrExpired
	}

	email = firstNonEmpty(login.Email, email)
	s := &Session{
		ID:             uuid.NewString(),
		Token:          login.Token,
		Name:           firstNonEmpty(login.Name, email),
		Email:          email,
		DepartmentName: login.DepartmentName,
		RoleName:       login.RoleName,
		Menus:          login.Menus,
		CreatedAt:      now,
		ExpiresAt:      expires,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	sessionsActive.Inc()
	return s, nil
}

// Get returns a live session. Expired sessions are removed.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.Expired(m.now()) {
		m.Delete(id)
		return nil, ErrExpired
	}
	return s, nil
}

// Delete ends a session. Unknown IDs are ignored.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		sessionsActive.Dec()
	}
}

// Prune removes every expired session and returns how many went.
func (m *Manager) Prune() int {
	now := m.now()

	m.mu.Lock()
	n := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	m.mu.Unlock()

	sessionsActive.Sub(float64(n))
	return n
}

// Count returns the number of stored sessions, expired ones included.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunJanitor prunes expired sessions every interval until ctx ends.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Prune()
		}
	}
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature.
// The backend owns the signing key; the claim only bounds the local session.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

type ctxKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
