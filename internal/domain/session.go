// internal/domain/session.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session binds an opaque token to an authenticated account.
type Session struct {
	Token     string    `db:"token"`
	AccountID int64     `db:"account_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// NewSession creates a session for accountID that is valid for ttl from now.
func NewSession(accountID int64, now time.Time, ttl time.Duration) *Session {
	return &Session{
		Token:     uuid.NewString(),
		AccountID: accountID,
		CreatedAt: now.UTC(),
		ExpiresAt: now.UTC().Add(ttl),
	}
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
