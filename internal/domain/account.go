// internal/domain/account.go
package domain

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

// Account number bounds. Numbers are drawn uniformly from [AccountNumberMin, AccountNumberMax].
const (
	AccountNumberMin = 10000000
	AccountNumberMax = 99999999
)

// Account represents a customer account with a single balance.
type Account struct {
	ID            int64           `db:"id" json:"id"`
	Username      string          `db:"username" json:"username"`
	PasswordHash  string          `db:"password_hash" json:"-"`
	AccountNumber string          `db:"account_number" json:"account_number"` // 8-digit display identifier
	Balance       decimal.Decimal `db:"balance" json:"balance"`               // NUMERIC(20, 4) in DB, never negative
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a new Account instance with a zero balance.
func NewAccount(username, passwordHash, accountNumber string) *Account {
	now := time.Now().UTC()
	return &Account{
		Username:      username,
		PasswordHash:  passwordHash,
		AccountNumber: accountNumber,
		Balance:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AccountNumberGenerator produces candidate account numbers.
type AccountNumberGenerator func() string

// RandomAccountNumber returns an 8-digit account number.
func RandomAccountNumber() string {
	return fmt.Sprintf("%d", AccountNumberMin+rand.IntN(AccountNumberMax-AccountNumberMin+1))
}
