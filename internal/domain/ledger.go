// internal/domain/ledger.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LedgerResult is the outcome of a successful deposit or withdrawal.
type LedgerResult struct {
	NewBalance  decimal.Decimal
	Transaction *Transaction
}

// Message renders the confirmation shown to the account owner.
func (r *LedgerResult) Message() string {
	verb := "Deposited"
	if r.Transaction.Type == TransactionTypeWithdraw {
		verb = "Withdrew"
	}
	return fmt.Sprintf("%s %s successfully! Balance: %s", verb, r.Transaction.Amount.String(), r.NewBalance.String())
}
