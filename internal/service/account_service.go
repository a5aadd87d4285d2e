// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"bank-system/internal/domain"
	"bank-system/internal/repository"
	"bank-system/internal/util"
	"bank-system/pkg/db"
	"bank-system/pkg/password"
)

const (
	maxUsernameLength        = 64
	maxAccountNumberAttempts = 5
)

// AccountService is the account directory: signup, credential checks and lookups.
type AccountService interface {
	Signup(ctx context.Context, username, pass string) (*domain.Account, error)
	Authenticate(ctx context.Context, username, pass string) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
}

// AccountServiceOpt customizes an AccountService.
type AccountServiceOpt func(*accountService)

// WithAccountNumberGenerator overrides the random account number source.
func WithAccountNumberGenerator(gen domain.AccountNumberGenerator) AccountServiceOpt {
	return func(s *accountService) {
		s.newAccountNumber = gen
	}
}

type accountService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	accountRepo repository.AccountRepository
	hasher      password.Hasher
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
	logger      *slog.Logger

	newAccountNumber domain.AccountNumberGenerator

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	hasher password.Hasher,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
	opts ...AccountServiceOpt,
) AccountService {
	s := &accountService{
		dbBeginner:       dbBeginner,
		dbExecutor:       dbExecutor,
		accountRepo:      accountRepo,
		hasher:           hasher,
		beginTx:          beginTx,
		commitTx:         commitTx,
		rollbackTx:       rollbackTx,
		logger:           logger,
		newAccountNumber: domain.RandomAccountNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates an account with a zero balance and a fresh account number.
func (s *accountService) Signup(ctx context.Context, username, pass string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, pass); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("signup: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("signup: transaction controller does not implement DBExecutor")
	}

	_, err = s.accountRepo.GetAccountByUsername(ctx, txExecutor, username)
	if err == nil {
		return nil, util.ErrDuplicateUsername
	}
	if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("signup: failed to check existing account: %w", err)
	}

	accountNumber, err := s.freeAccountNumber(ctx, txExecutor)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	account := domain.NewAccount(username, hash, accountNumber)
	if err := s.accountRepo.CreateAccount(ctx, txExecutor, account); err != nil {
		// Lost a race with a concurrent signup for the same name.
		if util.IsError(err, util.ErrDuplicateEntry) {
			return nil, util.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("signup: failed to create account: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("signup: failed to commit transaction: %w", err)
	}

	s.logger.Info("Account created", "account_id", account.ID, "account_number", account.AccountNumber)
	return account, nil
}

func (s *accountService) freeAccountNumber(ctx context.Context, q repository.DBExecutor) (string, error) {
	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		candidate := s.newAccountNumber()
		taken, err := s.accountRepo.AccountNumberExists(ctx, q, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		s.logger.Warn("Account number collision", "account_number", candidate, "attempt", attempt+1)
	}
	return "", fmt.Errorf("no free account number after %d attempts", maxAccountNumberAttempts)
}

// Authenticate returns the account whose credentials match exactly.
func (s *accountService) Authenticate(ctx context.Context, username, pass string) (*domain.Account, error) {
	username = strings.TrimSpace(username)

	account, err := s.accountRepo.GetAccountByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			// Spend the same work as a real comparison so unknown names are not observable.
			_ = s.hasher.Compare(s.dummy(), pass)
			s.logger.Warn("Login for unknown username")
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: failed to get account: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, pass); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.logger.Warn("Incorrect password", "account_id", account.ID)
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return account, nil
}

func (s *accountService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy-password")
	})
	return s.dummyHash
}

// GetAccount returns the current state of an account.
func (s *accountService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: failed to get account %d: %w", accountID, err)
	}
	return account, nil
}

func validateCredentials(username, pass string) error {
	var usernameErr, passwordErr error

	switch {
	case username == "":
		usernameErr = errors.New("username is required")
	case utf8.RuneCountInString(username) > maxUsernameLength:
		usernameErr = fmt.Errorf("username must be at most %d characters", maxUsernameLength)
	}
	switch {
	case strings.TrimSpace(pass) == "":
		passwordErr = errors.New("password is required")
	case len(pass) > password.MaxLength:
		passwordErr = fmt.Errorf("password must be at most %d bytes", password.MaxLength)
	}

	if joined := errors.Join(usernameErr, passwordErr); joined != nil {
		return fmt.Errorf("%w: %w", util.ErrInvalidInput, joined)
	}
	return nil
}
