// internal/api/handler/ledger.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"bank-system/internal/api/middleware"
	"bank-system/internal/domain"
	"bank-system/internal/service"
	"bank-system/internal/util"
)

// LedgerHandler handles balance operations and history for the session's account.
type LedgerHandler struct {
	responder
	ledger service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		responder: responder{logger: logger},
		ledger:    ledger,
	}
}

// Deposit handles the deposit money request.
// POST /api/deposit
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.ledger.Deposit)
}

// Withdraw handles the withdraw money request.
// POST /api/withdraw
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.ledger.Withdraw)
}

type ledgerOp func(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.LedgerResult, error)

func (h *LedgerHandler) apply(w http.ResponseWriter, r *http.Request, op ledgerOp) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.logger.Error("Ledger handler reached without session middleware", "url", r.RequestURI)
		h.respondWithError(w, util.ErrUnauthenticated)
		return
	}

	amount, err := decodeAmount(w, r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	result, err := op(r.Context(), session.AccountID, amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":        result.Message(),
		"new_balance":    result.NewBalance,
		"transaction_id": result.Transaction.ID,
	})
}

// History lists the session account's transactions, oldest first, as a bare
// JSON array. Callers without a session get an empty array.
// GET /api/history
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	transactions := []domain.Transaction{}

	if session, ok := middleware.SessionFromContext(r.Context()); ok {
		found, err := h.ledger.History(r.Context(), session.AccountID)
		if err != nil {
			h.respondWithError(w, err)
			return
		}
		if found != nil {
			transactions = found
		}
	}

	h.respondWithJSON(w, http.StatusOK, transactions)
}
