// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"bank-system/internal/domain"
)

// TransactionRepository defines the interface for the append-only transaction log.
type TransactionRepository interface {
	// CreateTransaction appends a transaction record and sets its ID.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByAccountID returns the account's transactions in insertion order.
	GetTransactionsByAccountID(ctx context.Context, q DBExecutor, accountID int64) ([]domain.Transaction, error)
}
