// Package session persists the signed-in user's bearer token, role and
// display name between runs.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// ErrNoSession is returned by Load when nothing has been saved.
var ErrNoSession = errors.New("session: no saved session")

// Session is the persisted client state.
type Session struct {
	Token     string      `json:"token"`
	Role      domain.Role `json:"role"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	SavedAt   time.Time   `json:"savedAt"`
}

// Name is the display name shown on dashboards.
func (s Session) Name() string {
	return domain.LoginResponse{FirstName: s.FirstName, LastName: s.LastName}.DisplayName()
}

// ExpiresAt reads the token's exp claim. The signature is not verified; the
// backend remains the authority on token validity.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token carries an exp claim that is before now.
// Opaque tokens never expire client-side.
func (s Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}

// Store persists at most one session.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory only.
type MemoryStore struct {
	s *Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(ctx context.Context) (*Session, error) {
	if m.s == nil {
		return nil, ErrNoSession
	}
	cp := *m.s
	return &cp, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	cp := *s
	m.s = &cp
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.s = nil
	return nil
}
