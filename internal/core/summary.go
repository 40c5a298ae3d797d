package core

import "github.com/shopspring/decimal"

// FinancialSummary holds per-category balance totals for one user.
// Totals are exact decimals; categories with no accounts stay at zero.
type FinancialSummary struct {
	TotalAsset     decimal.Decimal `json:"total_asset"`
	TotalLiability decimal.Decimal `json:"total_liability"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalEquity    decimal.Decimal `json:"total_equity"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	NetIncome      decimal.Decimal `json:"net_income"`
}

// Summarize folds current account balances into category totals and
// computes net income as revenue minus expense. It is a pure function of
// the given accounts.
func Summarize(accounts []Account) FinancialSummary {
	var s FinancialSummary
	for _, a := range accounts {
		switch a.Category {
		case Asset:
			s.TotalAsset = s.TotalAsset.Add(a.Balance)
		case Liability:
			s.TotalLiability = s.TotalLiability.Add(a.Balance)
		case Revenue:
			s.TotalRevenue = s.TotalRevenue.Add(a.Balance)
		case Equity:
			s.TotalEquity = s.TotalEquity.Add(a.Balance)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(a.Balance)
		}
	}
	s.NetIncome = s.TotalRevenue.Sub(s.TotalExpense)
	return s
}

// Total returns the summary total for a single category.
func (s FinancialSummary) Total(c Category) decimal.Decimal {
	switch c {
	case Asset:
		return s.TotalAsset
	case Liability:
		return s.TotalLiability
	case Revenue:
		return s.TotalRevenue
	case Equity:
		return s.TotalEquity
	case Expense:
		return s.TotalExpense
	}
	return decimal.Zero
}

// GroupByCategory splits accounts into per-category buckets, preserving
// the input order within each bucket.
func GroupByCategory(accounts []Account) map[Category][]Account {
	grouped := make(map[Category][]Account)
	for _, a := range accounts {
		grouped[a.Category] = append(grouped[a.Category], a)
	}
	return grouped
}
