package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RenderProfitLossExcel produces the profit/loss statement as an xlsx
// workbook.
func RenderProfitLossExcel(d ProfitLossData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Profit & Loss"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	rupiahFmt := `"Rp "#,##0.00`
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &rupiahFmt})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}
	boldAmountStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &rupiahFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create bold amount style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create bold style: %w", err)
	}

	set := func(cell string, value any) error {
		return f.SetCellValue(sheet, cell, value)
	}

	if err := set("A1", d.CompanyName); err != nil {
		return nil, err
	}
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	if err := set("A2", "LAPORAN LABA RUGI"); err != nil {
		return nil, err
	}
	f.SetCellStyle(sheet, "A2", "A2", headerStyle)
	if err := set("A3", "Periode: "+d.PeriodLabel); err != nil {
		return nil, err
	}

	revenue, _ := d.TotalRevenue.Float64()
	expense, _ := d.TotalExpense.Float64()
	netIncome, _ := d.NetIncome.Float64()

	rows := []struct {
		cellA string
		cellB string
		label string
		value *float64
		bold  bool
	}{
		{"A5", "", "PENDAPATAN", nil, true},
		{"A6", "B6", "Total Pendapatan", &revenue, false},
		{"A8", "", "BIAYA OPERASIONAL", nil, true},
		{"A9", "B9", "Total Biaya", &expense, false},
		{"A11", "B11", "LABA BERSIH", &netIncome, true},
	}
	for _, row := range rows {
		if err := set(row.cellA, row.label); err != nil {
			return nil, err
		}
		if row.bold {
			f.SetCellStyle(sheet, row.cellA, row.cellA, boldStyle)
		}
		if row.value == nil {
			continue
		}
		if err := set(row.cellB, *row.value); err != nil {
			return nil, err
		}
		style := amountStyle
		if row.bold {
			style = boldAmountStyle
		}
		f.SetCellStyle(sheet, row.cellB, row.cellB, style)
	}

	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 20); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render profit/loss excel: %w", err)
	}
	return buf.Bytes(), nil
}
