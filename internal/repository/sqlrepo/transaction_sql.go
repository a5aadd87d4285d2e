// internal/repository/sqlrepo/transaction_sql.go
package sqlrepo

import (
	"context"
	"fmt"

	"bank-system/internal/domain"
	"bank-system/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a new transaction record using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (account_id, type, amount, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.AccountID,
		transaction.Type,
		transaction.Amount,
		transaction.CreatedAt,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByAccountID lists every transaction of the account, oldest first.
func (r *TransactionRepository) GetTransactionsByAccountID(ctx context.Context, q repository.DBExecutor, accountID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `
		SELECT id, account_id, type, amount, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY id ASC`
	if err := q.SelectContext(ctx, &transactions, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for account %d: %w", accountID, err)
	}
	return transactions, nil
}
