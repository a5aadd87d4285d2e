// internal/repository/session_repo.go
package repository

import (
	"context"

	"bank-system/internal/domain"
)

// SessionRepository stores server-side sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, q DBExecutor, session *domain.Session) error
	GetSession(ctx context.Context, q DBExecutor, token string) (*domain.Session, error)
	// DeleteSession removes the session. Deleting an unknown token is not an error.
	DeleteSession(ctx context.Context, q DBExecutor, token string) error
}
