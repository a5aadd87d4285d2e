// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the type of a ledger entry.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
)

// AmountScale is the number of decimal places an amount may carry. Balances
// are stored as NUMERIC(20, 4).
const AmountScale = 4

// Transaction is an immutable ledger entry owned by one account.
type Transaction struct {
	ID        int64           `db:"id" json:"id"`
	AccountID int64           `db:"account_id" json:"account_id"`
	Type      TransactionType `db:"type" json:"type"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a new Transaction instance.
func NewTransaction(accountID int64, txType TransactionType, amount decimal.Decimal) *Transaction {
	return &Transaction{
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}
