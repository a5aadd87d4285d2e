// internal/service/session_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bank-system/internal/domain"
	"bank-system/internal/repository"
	"bank-system/internal/util"
)

// SessionService manages server-side login sessions.
type SessionService interface {
	Login(ctx context.Context, username, pass string) (*domain.Session, *domain.Account, error)
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
}

type sessionService struct {
	dbExecutor  repository.DBExecutor
	accounts    AccountService
	sessionRepo repository.SessionRepository
	ttl         time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewSessionService creates a new instance of SessionService. Sessions expire ttl after login.
func NewSessionService(
	dbExecutor repository.DBExecutor,
	accounts AccountService,
	sessionRepo repository.SessionRepository,
	ttl time.Duration,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		dbExecutor:  dbExecutor,
		accounts:    accounts,
		sessionRepo: sessionRepo,
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
	}
}

// Login checks the credentials and opens a session for the account.
func (s *sessionService) Login(ctx context.Context, username, pass string) (*domain.Session, *domain.Account, error) {
	account, err := s.accounts.Authenticate(ctx, username, pass)
	if err != nil {
		return nil, nil, err
	}

	session := domain.NewSession(account.ID, s.now(), s.ttl)
	if err := s.sessionRepo.CreateSession(ctx, s.dbExecutor, session); err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	s.logger.Info("Session opened", "account_id", account.ID)
	return session, account, nil
}

// Resolve returns the live session for token or util.ErrUnauthenticated.
func (s *sessionService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, util.ErrUnauthenticated
	}

	session, err := s.sessionRepo.GetSession(ctx, s.dbExecutor, token)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.sessionRepo.DeleteSession(ctx, s.dbExecutor, token); err != nil {
			s.logger.Error("Failed to delete expired session", "account_id", session.AccountID, "error", err)
		}
		return nil, util.ErrUnauthenticated
	}
	return session, nil
}

// Logout invalidates the session. Unknown or empty tokens are ignored.
func (s *sessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionRepo.DeleteSession(ctx, s.dbExecutor, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
