// Package reports renders financial statements as downloadable documents.
//
// Balances in a report are always current; the requested period only
// labels the document.
package reports

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	ProfitLoss   Kind = "profit-loss"
	BalanceSheet Kind = "balance-sheet"
)

type Format string

const (
	PDF   Format = "pdf"
	Excel Format = "excel"
)

// MIMEType returns the content type served for a rendered format.
func MIMEType(f Format) string {
	if f == Excel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// ProfitLossFilename suggests the attachment filename for a profit/loss
// report covering [start, end].
func ProfitLossFilename(start, end string, f Format) string {
	ext := "pdf"
	if f == Excel {
		ext = "xlsx"
	}
	return fmt.Sprintf("profit_loss_%s_%s.%s", start, end, ext)
}

// BalanceSheetFilename suggests the attachment filename for a balance
// sheet as of the given date.
func BalanceSheetFilename(date string) string {
	return fmt.Sprintf("balance_sheet_%s.pdf", date)
}

// ProfitLossData carries everything the profit/loss renderers need.
type ProfitLossData struct {
	CompanyName  string
	PeriodLabel  string
	TotalRevenue decimal.Decimal
	TotalExpense decimal.Decimal
	NetIncome    decimal.Decimal
}

// AccountLine is one account row on a balance sheet.
type AccountLine struct {
	Name    string
	Balance decimal.Decimal
}

// BalanceSheetData carries everything the balance sheet renderer needs.
type BalanceSheetData struct {
	CompanyName string
	DateLabel   string
	Assets      []AccountLine
	Liabilities []AccountLine
	Equity      []AccountLine
}

func sum(lines []AccountLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Balance)
	}
	return total
}

// formatRupiah renders an amount as "Rp 1,234.56" with thousand separators.
func formatRupiah(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("Rp %s%s.%s", sign, b.String(), fracPart)
}
