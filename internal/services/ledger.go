// Package services orchestrates storage operations behind the HTTP layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bukukas/internal/core"
	"bukukas/internal/storage"
)

// LedgerService implements posting, reversal, listing and aggregation over
// a user's accounts and transactions.
type LedgerService struct {
	store *storage.Repository
}

func NewLedgerService(store *storage.Repository) *LedgerService {
	return &LedgerService{store: store}
}

type PostInput struct {
	AccountID    string
	Date         core.Date
	Description  string
	Amount       decimal.Decimal
	ReceiptImage string
}

// Post records a transaction against one of the user's accounts and applies
// its amount to the account balance. The amount's sign is taken as-is for
// every account category; no sign or zero validation is performed.
func (s *LedgerService) Post(ctx context.Context, userID string, in PostInput) (core.Transaction, error) {
	txn := core.Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         in.Date,
		Description:  in.Description,
		Amount:       in.Amount,
		AccountID:    in.AccountID,
		ReceiptImage: in.ReceiptImage,
		CreatedAt:    time.Now().UTC(),
	}
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}

	posted, err := s.store.PostTransaction(ctx, txn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("post transaction: %w", err)
	}
	return posted, nil
}

// Delete reverses a transaction's balance effect and removes it.
func (s *LedgerService) Delete(ctx context.Context, userID, transactionID string) error {
	if err := s.store.DeleteTransaction(ctx, transactionID, userID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// List returns the user's transactions, newest date first.
func (s *LedgerService) List(ctx context.Context, userID string, filter core.ListFilter) ([]core.Transaction, error) {
	if err := filter.Normalize(); err != nil {
		return nil, err
	}
	txns, err := s.store.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// Accounts returns the user's chart of accounts.
func (s *LedgerService) Accounts(ctx context.Context, userID string) ([]core.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount adds a user-defined account with a zero starting balance.
func (s *LedgerService) CreateAccount(ctx context.Context, userID, name, code string, category core.Category) (core.Account, error) {
	acc := core.Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Code:      code,
		Category:  category,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	if err := acc.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := s.store.CreateAccount(ctx, acc); err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", acc.ID, "user_id", userID, "name", name, "category", string(category))
	return acc, nil
}

// Summarize recomputes the financial summary from live account balances.
// Nothing is cached; each call reflects the state at that moment.
func (s *LedgerService) Summarize(ctx context.Context, userID string) (core.FinancialSummary, error) {
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("list accounts: %w", err)
	}
	return core.Summarize(accounts), nil
}

// ReportData returns the summary totals together with the grouped account
// list the balance sheet needs. Balances are always current; a report's
// date range only labels the output.
func (s *LedgerService) ReportData(ctx context.Context, userID string) (core.FinancialSummary, map[core.Category][]core.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return core.FinancialSummary{}, nil, fmt.Errorf("list accounts: %w", err)
	}
	return core.Summarize(accounts), core.GroupByCategory(accounts), nil
}
