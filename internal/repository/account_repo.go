// internal/repository/account_repo.go
package repository

import (
	"context"

	"bank-system/internal/domain"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	// CreateAccount inserts the account and sets its ID.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	GetAccountByID(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	GetAccountByUsername(ctx context.Context, q DBExecutor, username string) (*domain.Account, error)
	AccountNumberExists(ctx context.Context, q DBExecutor, accountNumber string) (bool, error)
	// Credit and Debit read and write the balance under a row lock, so q must
	// be a transaction for concurrent calls to serialize.

	// Credit adds amount to the balance and returns the new balance.
	Credit(ctx context.Context, q DBExecutor, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
	// Debit subtracts amount only if the balance covers it. It fails with
	// util.ErrInsufficientFunds otherwise and leaves the balance untouched.
	Debit(ctx context.Context, q DBExecutor, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
}
