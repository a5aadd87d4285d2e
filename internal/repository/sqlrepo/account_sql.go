// internal/repository/sqlrepo/account_sql.go
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bank-system/internal/domain"
	"bank-system/internal/repository"
	"bank-system/internal/util"

	"github.com/shopspring/decimal"
)

const accountColumns = `id, username, password_hash, account_number, balance, created_at, updated_at`

// AccountRepository implements repository.AccountRepository on top of sqlx.
// Queries use $N placeholders, which both lib/pq and go-sqlite3 accept.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() repository.AccountRepository {
	return &AccountRepository{}
}

// CreateAccount inserts a new account using the provided DBExecutor.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO accounts (username, password_hash, account_number, balance, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		account.Username,
		account.PasswordHash,
		account.AccountNumber,
		account.Balance,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create account '%s': %w", account.Username, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByID retrieves an account by its ID.
func (r *AccountRepository) GetAccountByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	if err := q.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID %d: %w", id, err)
	}
	return &account, nil
}

// GetAccountByUsername retrieves an account by its username.
func (r *AccountRepository) GetAccountByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	if err := q.GetContext(ctx, &account, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by username '%s': %w", username, err)
	}
	return &account, nil
}

// AccountNumberExists reports whether an account already uses accountNumber.
func (r *AccountRepository) AccountNumberExists(ctx context.Context, q repository.DBExecutor, accountNumber string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM accounts WHERE account_number = $1`
	if err := q.GetContext(ctx, &count, query, accountNumber); err != nil {
		return false, fmt.Errorf("failed to look up account number %s: %w", accountNumber, err)
	}
	return count > 0, nil
}

// lockBalance reads the balance and takes the row's write lock for the rest of
// the transaction. Postgres blocks other writers on the row; SQLite already
// holds the database lock from BEGIN IMMEDIATE.
func (r *AccountRepository) lockBalance(ctx context.Context, q repository.DBExecutor, accountID int64, now time.Time) (decimal.Decimal, error) {
	query := `UPDATE accounts SET updated_at = $1 WHERE id = $2 RETURNING balance`
	var balance decimal.Decimal
	if err := q.QueryRowContext(ctx, query, now, accountID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, util.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	return balance, nil
}

func (r *AccountRepository) setBalance(ctx context.Context, q repository.DBExecutor, accountID int64, balance decimal.Decimal, now time.Time) error {
	query := `UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3`
	if _, err := q.ExecContext(ctx, query, balance, now, accountID); err != nil {
		return fmt.Errorf("failed to update balance of account %d: %w", accountID, err)
	}
	return nil
}

// Credit adds amount to the balance. The sum is computed in decimal, so the
// stored value is exact on every driver.
func (r *AccountRepository) Credit(ctx context.Context, q repository.DBExecutor, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	now := time.Now().UTC()
	balance, err := r.lockBalance(ctx, q, accountID, now)
	if err != nil {
		return decimal.Zero, err
	}

	balance = balance.Add(amount)
	if err := r.setBalance(ctx, q, accountID, balance, now); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// Debit subtracts amount when the locked balance covers it.
func (r *AccountRepository) Debit(ctx context.Context, q repository.DBExecutor, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	now := time.Now().UTC()
	balance, err := r.lockBalance(ctx, q, accountID, now)
	if err != nil {
		return decimal.Zero, err
	}
	if balance.LessThan(amount) {
		return decimal.Zero, util.ErrInsufficientFunds
	}

	balance = balance.Sub(amount)
	if err := r.setBalance(ctx, q, accountID, balance, now); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
