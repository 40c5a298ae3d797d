package reports

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "Rp 0.00"},
		{"5", "Rp 5.00"},
		{"1234.5", "Rp 1,234.50"},
		{"250000", "Rp 250,000.00"},
		{"1234567.89", "Rp 1,234,567.89"},
		{"-40", "Rp -40.00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatRupiah(dec(t, tc.in)), "input %s", tc.in)
	}
}

func TestMIMETypeAndFilenames(t *testing.T) {
	assert.Equal(t, "application/pdf", MIMEType(PDF))
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		MIMEType(Excel))

	assert.Equal(t, "profit_loss_2024-01-01_2024-12-31.pdf",
		ProfitLossFilename("2024-01-01", "2024-12-31", PDF))
	assert.Equal(t, "profit_loss_2024-01-01_2024-12-31.xlsx",
		ProfitLossFilename("2024-01-01", "2024-12-31", Excel))
	assert.Equal(t, "balance_sheet_2024-12-31.pdf",
		BalanceSheetFilename("2024-12-31"))
}

func TestRenderProfitLossPDF(t *testing.T) {
	out, err := RenderProfitLossPDF(ProfitLossData{
		CompanyName:  "Toko Ahmad",
		PeriodLabel:  "2024-01-01 s/d 2024-12-31",
		TotalRevenue: dec(t, "300"),
		TotalExpense: dec(t, "120"),
		NetIncome:    dec(t, "180"),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output must be a PDF document")
}

func TestRenderBalanceSheetPDF(t *testing.T) {
	out, err := RenderBalanceSheetPDF(BalanceSheetData{
		CompanyName: "Toko Ahmad",
		DateLabel:   "2024-12-31",
		Assets: []AccountLine{
			{Name: "Cash", Balance: dec(t, "250000")},
			{Name: "Bank", Balance: dec(t, "0")},
		},
		Liabilities: []AccountLine{{Name: "Payables", Balance: dec(t, "50")}},
		Equity:      []AccountLine{{Name: "Personal Capital", Balance: dec(t, "1000")}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output must be a PDF document")
}

func TestRenderProfitLossExcel(t *testing.T) {
	out, err := RenderProfitLossExcel(ProfitLossData{
		CompanyName:  "Toko Ahmad",
		PeriodLabel:  "2024-01-01 s/d 2024-12-31",
		TotalRevenue: dec(t, "300"),
		TotalExpense: dec(t, "120"),
		NetIncome:    dec(t, "180"),
	})
	require.NoError(t, err)
	// xlsx files are zip archives.
	assert.True(t, bytes.HasPrefix(out, []byte("PK")), "output must be an xlsx archive")
}

func TestSum(t *testing.T) {
	lines := []AccountLine{
		{Balance: dec(t, "0.1")},
		{Balance: dec(t, "0.2")},
	}
	assert.True(t, sum(lines).Equal(dec(t, "0.3")), "decimal sum must be exact")
	assert.True(t, sum(nil).IsZero())
}
