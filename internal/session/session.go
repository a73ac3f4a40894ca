// Package session carries the signed-in user's context. It is passed
// explicitly to whatever needs it; nothing reads it from a global.
package session

import (
	"sync"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// Session holds an opaque bearer token and, once fetched, the current
// user. It is safe for concurrent use.
type Session struct {
	token string

	mu   sync.RWMutex
	user *domain.User
}

func New(token string) *Session {
	return &Session{token: token}
}

// Token implements remote.TokenSource. The value is never inspected.
func (s *Session) Token() string {
	return s.token
}

// User returns a copy of the current user, or nil before SetUser.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	u.Memberships = append([]domain.TeamMembership(nil), s.user.Memberships...)
	return &u
}

func (s *Session) SetUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	cp.Memberships = append([]domain.TeamMembership(nil), u.Memberships...)
	s.user = &cp
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.token != ""
}
