// Package storage persists users, accounts and transactions in SQLite.
//
// Every ledger mutation (posting, reversal) runs inside a single SQL
// transaction so the transaction row and the account balance can never
// diverge, and concurrent posts against one account cannot lose updates.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"bukukas/internal/core"
)

type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dbPath and runs
// migrations. The connection pool is capped at one connection, which
// serializes writers the way SQLite expects.
func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a user together with their default chart of accounts
// in one transaction. A duplicate username or email yields core.ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, user core.User, defaults []core.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, company_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CompanyName, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	for _, acc := range defaults {
		if err := insertAccount(ctx, tx, acc); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "User created",
		"user_id", user.ID,
		"username", user.Username,
		"default_accounts", len(defaults))
	return nil
}

// GetUserByUsername returns the user with the given username or
// core.ErrNotFound.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, company_name, created_at
		 FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CompanyName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UserExists reports whether a user with the given username or email exists.
func (r *Repository) UserExists(ctx context.Context, username, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`, username, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return n > 0, nil
}

// CreateAccount inserts a single account with a zero balance.
func (r *Repository) CreateAccount(ctx context.Context, acc core.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := insertAccount(ctx, tx, acc); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertAccount(ctx context.Context, tx *sql.Tx, acc core.Account) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, code, category, balance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		acc.ID, acc.UserID, acc.Name, acc.Code, string(acc.Category), acc.Balance.String(), acc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert account %s: %w", acc.Name, err)
	}
	return nil
}

// ListAccounts returns every account owned by the user in creation order.
func (r *Repository) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, code, category, balance, created_at
		 FROM accounts WHERE user_id = ? ORDER BY created_at, code`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// GetAccount returns one account scoped to its owner. An account owned by
// another user is indistinguishable from a missing one.
func (r *Repository) GetAccount(ctx context.Context, id, userID string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, code, category, balance, created_at
		 FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	acc, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, err
	}
	return acc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var (
		acc      core.Account
		code     sql.NullString
		category string
		balance  string
	)
	err := row.Scan(&acc.ID, &acc.UserID, &acc.Name, &code, &category, &balance, &acc.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Account{}, err
		}
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	acc.Code = code.String
	acc.Category = core.Category(category)
	acc.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return core.Account{}, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	return acc, nil
}

// PostTransaction inserts the transaction and applies its amount to the
// target account's balance in one SQL transaction. The account name is
// snapshotted into the stored row, and the completed transaction is
// returned. Returns core.ErrNotFound when the account does not exist or
// belongs to another user.
func (r *Repository) PostTransaction(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var (
		name    string
		balance string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT name, balance FROM accounts WHERE id = ? AND user_id = ?`,
		txn.AccountID, txn.UserID).Scan(&name, &balance)
	if err == sql.ErrNoRows {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load account: %w", err)
	}

	current, err := decimal.NewFromString(balance)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse balance %q: %w", balance, err)
	}

	txn.AccountName = name

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, date, description, amount, account_id, account_name, receipt_image, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, txn.Date.String(), txn.Description, txn.Amount.String(),
		txn.AccountID, txn.AccountName, nullable(txn.ReceiptImage), txn.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	// Same additive sign for every account category.
	newBalance := current.Add(txn.Amount)
	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = ? WHERE id = ?`, newBalance.String(), txn.AccountID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Transaction posted",
		"transaction_id", txn.ID,
		"account_id", txn.AccountID,
		"amount", txn.Amount.String(),
		"new_balance", newBalance.String())
	return txn, nil
}

// DeleteTransaction reverses the transaction's balance effect and removes
// its row, all in one SQL transaction. If the referenced account no longer
// exists the balance step is skipped and the row is still deleted. A second
// delete of the same id returns core.ErrNotFound, so the reversal is never
// applied twice.
func (r *Repository) DeleteTransaction(ctx context.Context, id, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var (
		amount    string
		accountID string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT amount, account_id FROM transactions WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&amount, &accountID)
	if err == sql.ErrNoRows {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", amount, err)
	}

	var balance string
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE id = ?`, accountID).Scan(&balance)
	switch {
	case err == sql.ErrNoRows:
		// Account is gone; delete the transaction anyway.
		slog.WarnContext(ctx, "Account missing during reversal, skipping balance update",
			"transaction_id", id, "account_id", accountID)
	case err != nil:
		return fmt.Errorf("load account: %w", err)
	default:
		current, err := decimal.NewFromString(balance)
		if err != nil {
			return fmt.Errorf("parse balance %q: %w", balance, err)
		}
		newBalance := current.Sub(amt)
		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET balance = ? WHERE id = ?`, newBalance.String(), accountID); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"transaction_id", id, "account_id", accountID, "amount", amt.String())
	return nil
}

// ListTransactions returns the user's transactions sorted by date
// descending, optionally filtered to one account, paginated by the
// normalized filter.
func (r *Repository) ListTransactions(ctx context.Context, userID string, filter core.ListFilter) ([]core.Transaction, error) {
	query := `SELECT id, user_id, date, description, amount, account_id, account_name, receipt_image, created_at
	          FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if filter.AccountID != "" {
		query += ` AND account_id = ?`
		args = append(args, filter.AccountID)
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var (
			txn     core.Transaction
			date    string
			amount  string
			receipt sql.NullString
		)
		err := rows.Scan(&txn.ID, &txn.UserID, &date, &txn.Description, &amount,
			&txn.AccountID, &txn.AccountName, &receipt, &txn.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txn.Date, err = core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		txn.ReceiptImage = receipt.String
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
