package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	labelWidth  = 110.0
	amountWidth = 50.0
)

func newReportPDF(companyName, title, periodLabel string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, periodLabel, "", 1, "C", false, 0, "")
	pdf.Ln(8)

	return pdf
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
}

func amountRow(pdf *fpdf.Fpdf, label, amount string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	pdf.CellFormat(labelWidth, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, 7, amount, "", 1, "R", false, 0, "")
}

// RenderProfitLossPDF produces the profit/loss statement as PDF bytes.
func RenderProfitLossPDF(d ProfitLossData) ([]byte, error) {
	pdf := newReportPDF(d.CompanyName, "LAPORAN LABA RUGI", "Periode: "+d.PeriodLabel)

	sectionHeader(pdf, "PENDAPATAN")
	amountRow(pdf, "Total Pendapatan", formatRupiah(d.TotalRevenue), false)
	pdf.Ln(4)

	sectionHeader(pdf, "BIAYA OPERASIONAL")
	amountRow(pdf, "Total Biaya", formatRupiah(d.TotalExpense), false)
	pdf.Ln(4)

	amountRow(pdf, "LABA BERSIH", formatRupiah(d.NetIncome), true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render profit/loss pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderBalanceSheetPDF produces the balance sheet as PDF bytes: assets
// first, then liabilities and equity with a combined total.
func RenderBalanceSheetPDF(d BalanceSheetData) ([]byte, error) {
	pdf := newReportPDF(d.CompanyName, "NERACA", "Per "+d.DateLabel)

	sectionHeader(pdf, "ASET")
	for _, line := range d.Assets {
		amountRow(pdf, line.Name, formatRupiah(line.Balance), false)
	}
	amountRow(pdf, "TOTAL ASET", formatRupiah(sum(d.Assets)), true)
	pdf.Ln(4)

	sectionHeader(pdf, "KEWAJIBAN & MODAL")
	for _, line := range d.Liabilities {
		amountRow(pdf, line.Name, formatRupiah(line.Balance), false)
	}
	for _, line := range d.Equity {
		amountRow(pdf, line.Name, formatRupiah(line.Balance), false)
	}
	amountRow(pdf, "TOTAL KEWAJIBAN & MODAL",
		formatRupiah(sum(d.Liabilities).Add(sum(d.Equity))), true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render balance sheet pdf: %w", err)
	}
	return buf.Bytes(), nil
}
