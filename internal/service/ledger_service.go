// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"bank-system/internal/domain"
	"bank-system/internal/repository"
	"bank-system/internal/util"
	"bank-system/pkg/db"

	"github.com/shopspring/decimal"
)

// LedgerService applies balance-changing operations and exposes the transaction log.
type LedgerService interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.LedgerResult, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.LedgerResult, error)
	History(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

type ledgerService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	maxAmount       decimal.Decimal
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	logger          *slog.Logger
}

// NewLedgerService creates a new instance of LedgerService. Amounts above
// maxAmount are rejected.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	maxAmount decimal.Decimal,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) LedgerService {
	return &ledgerService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		maxAmount:       maxAmount,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		logger:          logger,
	}
}

// Deposit adds money to the account and records a DEPOSIT entry.
func (s *ledgerService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.LedgerResult, error) {
	if err := s.validateAmount(amount); err != nil {
		return nil, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("deposit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("deposit: transaction controller does not implement DBExecutor")
	}

	newBalance, err := s.accountRepo.Credit(ctx, txExecutor, accountID, amount)
	if err != nil {
		return nil, fmt.Errorf("deposit: failed to update balance of account %d: %w", accountID, err)
	}

	transaction, err := s.recordTransaction(ctx, txExecutor, accountID, domain.TransactionTypeDeposit, amount)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("deposit: failed to commit transaction: %w", err)
	}

	return &domain.LedgerResult{NewBalance: newBalance, Transaction: transaction}, nil
}

// Withdraw takes money from the account if the balance covers it and records
// a WITHDRAW entry. A declined withdrawal returns util.ErrInsufficientFunds
// and changes nothing.
func (s *ledgerService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.LedgerResult, error) {
	if err := s.validateAmount(amount); err != nil {
		return nil, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("withdraw: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("withdraw: transaction controller does not implement DBExecutor")
	}

	newBalance, err := s.accountRepo.Debit(ctx, txExecutor, accountID, amount)
	if err != nil {
		if util.IsError(err, util.ErrInsufficientFunds) {
			s.logger.Warn("Withdrawal declined", "account_id", accountID, "amount", amount.String())
			return nil, util.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("withdraw: failed to update balance of account %d: %w", accountID, err)
	}

	transaction, err := s.recordTransaction(ctx, txExecutor, accountID, domain.TransactionTypeWithdraw, amount)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("withdraw: failed to commit transaction: %w", err)
	}

	return &domain.LedgerResult{NewBalance: newBalance, Transaction: transaction}, nil
}

// History returns the account's transactions in the order they were recorded.
func (s *ledgerService) History(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.GetTransactionsByAccountID(ctx, s.dbExecutor, accountID)
	if err != nil {
		return nil, fmt.Errorf("history: failed to retrieve transactions: %w", err)
	}
	return transactions, nil
}

func (s *ledgerService) recordTransaction(ctx context.Context, q repository.DBExecutor, accountID int64, txType domain.TransactionType, amount decimal.Decimal) (*domain.Transaction, error) {
	transaction := domain.NewTransaction(accountID, txType, amount)
	if err := s.transactionRepo.CreateTransaction(ctx, q, transaction); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return transaction, nil
}

func (s *ledgerService) validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", util.ErrInvalidInput)
	}
	if !amount.Equal(amount.Truncate(domain.AmountScale)) {
		return fmt.Errorf("%w: amount must have at most %d decimal places", util.ErrInvalidInput, domain.AmountScale)
	}
	if amount.GreaterThan(s.maxAmount) {
		return fmt.Errorf("%w: amount must not exceed %s", util.ErrInvalidInput, s.maxAmount.String())
	}
	return nil
}
