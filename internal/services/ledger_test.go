package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukukas/internal/core"
	"bukukas/internal/storage"
)

func newTestServices(t *testing.T) (*UserService, *LedgerService) {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return NewUserService(repo, "test-secret", time.Hour), NewLedgerService(repo)
}

func registerAhmad(t *testing.T, users *UserService) string {
	t.Helper()
	userID, err := users.Register(context.Background(), RegisterInput{
		Username:    "ahmad",
		Email:       "ahmad@example.com",
		Password:    "rahasia123",
		CompanyName: "Toko Ahmad",
	})
	require.NoError(t, err)
	return userID
}

func findAccount(t *testing.T, accounts []core.Account, name string) core.Account {
	t.Helper()
	for _, acc := range accounts {
		if acc.Name == name {
			return acc
		}
	}
	t.Fatalf("account %q not found", name)
	return core.Account{}
}

func TestRegisterSeedsDefaultAccounts(t *testing.T) {
	users, ledger := newTestServices(t)
	userID := registerAhmad(t, users)

	accounts, err := ledger.Accounts(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, accounts, 6)

	want := map[string]core.Category{
		"Cash":              core.Asset,
		"Bank":              core.Asset,
		"Payables":          core.Liability,
		"Personal Capital":  core.Equity,
		"Sales":             core.Revenue,
		"Operating Expense": core.Expense,
	}
	for _, acc := range accounts {
		cat, ok := want[acc.Name]
		require.True(t, ok, "unexpected default account %q", acc.Name)
		assert.Equal(t, cat, acc.Category)
		assert.True(t, acc.Balance.IsZero(), "%s must start at zero", acc.Name)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	users, _ := newTestServices(t)
	registerAhmad(t, users)

	_, err := users.Register(context.Background(), RegisterInput{
		Username:    "ahmad",
		Email:       "fresh@example.com",
		Password:    "rahasia123",
		CompanyName: "Other",
	})
	assert.ErrorIs(t, err, core.ErrConflict)

	_, err = users.Register(context.Background(), RegisterInput{
		Username:    "fresh",
		Email:       "ahmad@example.com",
		Password:    "rahasia123",
		CompanyName: "Other",
	})
	assert.ErrorIs(t, err, core.ErrConflict, "duplicate email must conflict too")
}

func TestRegisterValidation(t *testing.T) {
	users, _ := newTestServices(t)
	cases := []RegisterInput{
		{Username: "", Email: "a@b.c", Password: "secret1", CompanyName: "X"},
		{Username: "a", Email: "not-an-email", Password: "secret1", CompanyName: "X"},
		{Username: "a", Email: "a@b.c", Password: "short", CompanyName: "X"},
		{Username: "a", Email: "a@b.c", Password: "secret1", CompanyName: "  "},
	}
	for _, in := range cases {
		_, err := users.Register(context.Background(), in)
		assert.Error(t, err, "input %+v must be rejected", in)
	}
}

func TestLoginAndResolve(t *testing.T) {
	users, _ := newTestServices(t)
	userID := registerAhmad(t, users)

	token, user, err := users.Login(context.Background(), "ahmad", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NotEmpty(t, token)

	resolved, err := users.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, resolved.ID)

	_, _, err = users.Login(context.Background(), "ahmad", "wrong")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	_, _, err = users.Login(context.Background(), "ghost", "rahasia123")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials,
		"unknown user must fail identically to a wrong password")
}

// Register, post to Cash, summarize, delete, summarize again: the books
// must return to all zeros.
func TestPostSummarizeDeleteRoundTrip(t *testing.T) {
	users, ledger := newTestServices(t)
	userID := registerAhmad(t, users)
	ctx := context.Background()

	accounts, err := ledger.Accounts(ctx, userID)
	require.NoError(t, err)
	cash := findAccount(t, accounts, "Cash")

	posted, err := ledger.Post(ctx, userID, PostInput{
		AccountID:   cash.ID,
		Date:        core.NewDate(2024, 6, 1),
		Description: "Initial deposit",
		Amount:      decimal.NewFromInt(250000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cash", posted.AccountName)

	summary, err := ledger.Summarize(ctx, userID)
	require.NoError(t, err)
	assert.True(t, summary.TotalAsset.Equal(decimal.NewFromInt(250000)),
		"total asset expected 250000, got %s", summary.TotalAsset)

	require.NoError(t, ledger.Delete(ctx, userID, posted.ID))

	summary, err = ledger.Summarize(ctx, userID)
	require.NoError(t, err)
	for _, cat := range core.Categories() {
		assert.True(t, summary.Total(cat).IsZero(),
			"category %s expected zero after reversal, got %s", cat, summary.Total(cat))
	}
	assert.True(t, summary.NetIncome.IsZero())
}

func TestRevenuePostingsDriveNetIncome(t *testing.T) {
	users, ledger := newTestServices(t)
	userID := registerAhmad(t, users)
	ctx := context.Background()

	accounts, err := ledger.Accounts(ctx, userID)
	require.NoError(t, err)
	sales := findAccount(t, accounts, "Sales")

	for _, amount := range []int64{100, -40} {
		_, err := ledger.Post(ctx, userID, PostInput{
			AccountID:   sales.ID,
			Date:        core.NewDate(2024, 6, 1),
			Description: "Sale adjustment",
			Amount:      decimal.NewFromInt(amount),
		})
		require.NoError(t, err)
	}

	summary, err := ledger.Summarize(ctx, userID)
	require.NoError(t, err)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(60)),
		"total revenue expected 60, got %s", summary.TotalRevenue)
	assert.True(t, summary.NetIncome.Equal(decimal.NewFromInt(60)),
		"net income expected 60, got %s", summary.NetIncome)
	assert.True(t, summary.TotalExpense.IsZero())
}

func TestListClampsLimitAndRejectsNegativeOffset(t *testing.T) {
	users, ledger := newTestServices(t)
	userID := registerAhmad(t, users)
	ctx := context.Background()

	_, err := ledger.List(ctx, userID, core.ListFilter{Offset: -1})
	assert.ErrorIs(t, err, core.ErrInvalidPagination)

	txns, err := ledger.List(ctx, userID, core.ListFilter{Limit: 9999})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreateAccountValidatesCategory(t *testing.T) {
	users, ledger := newTestServices(t)
	userID := registerAhmad(t, users)

	_, err := ledger.CreateAccount(context.Background(), userID, "Petty Cash", "1003", "Uang")
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	acc, err := ledger.CreateAccount(context.Background(), userID, "Petty Cash", "1003", core.Asset)
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
}

func TestReportDataGroupsAccounts(t *testing.T) {
	users, ledger := newTestServices(t)
	userID := registerAhmad(t, users)
	ctx := context.Background()

	accounts, err := ledger.Accounts(ctx, userID)
	require.NoError(t, err)
	cash := findAccount(t, accounts, "Cash")
	_, err = ledger.Post(ctx, userID, PostInput{
		AccountID:   cash.ID,
		Date:        core.NewDate(2024, 6, 1),
		Description: "Deposit",
		Amount:      decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	summary, grouped, err := ledger.ReportData(ctx, userID)
	require.NoError(t, err)
	assert.True(t, summary.TotalAsset.Equal(decimal.NewFromInt(500)))
	assert.Len(t, grouped[core.Asset], 2)
	assert.Len(t, grouped[core.Liability], 1)
	assert.Len(t, grouped[core.Equity], 1)
}
