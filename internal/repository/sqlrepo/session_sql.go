// internal/repository/sqlrepo/session_sql.go
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bank-system/internal/domain"
	"bank-system/internal/repository"
	"bank-system/internal/util"
)

// SessionRepository implements repository.SessionRepository.
type SessionRepository struct{}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository() repository.SessionRepository {
	return &SessionRepository{}
}

func (r *SessionRepository) CreateSession(ctx context.Context, q repository.DBExecutor, session *domain.Session) error {
	query := `INSERT INTO sessions (token, account_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`
	if _, err := q.ExecContext(ctx, query, session.Token, session.AccountID, session.CreatedAt, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create session for account %d: %w", session.AccountID, err)
	}
	return nil
}

func (r *SessionRepository) GetSession(ctx context.Context, q repository.DBExecutor, token string) (*domain.Session, error) {
	var session domain.Session
	query := `SELECT token, account_id, created_at, expires_at FROM sessions WHERE token = $1`
	if err := q.GetContext(ctx, &session, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, q repository.DBExecutor, token string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
