package http

import (
	"fmt"
	"net/http"
	"time"

	"bukukas/internal/core"
	"bukukas/internal/reports"
)

// profitLossPeriod parses the start_date/end_date query parameters. Both
// default to the current month when absent. Balances are always current;
// the period only labels the report.
func profitLossPeriod(r *http.Request) (start, end core.Date, err error) {
	now := time.Now().UTC()
	start = core.NewDate(now.Year(), int(now.Month()), 1)
	end = core.NewDate(now.Year(), int(now.Month()), now.Day())

	if v := r.URL.Query().Get("start_date"); v != "" {
		if start, err = core.ParseDate(v); err != nil {
			return
		}
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		if end, err = core.ParseDate(v); err != nil {
			return
		}
	}
	return
}

func (s *Server) profitLossData(r *http.Request) (reports.ProfitLossData, core.Date, core.Date, error) {
	user, ok := userFrom(r.Context())
	if !ok {
		return reports.ProfitLossData{}, core.Date{}, core.Date{}, core.ErrInvalidCredentials
	}

	start, end, err := profitLossPeriod(r)
	if err != nil {
		return reports.ProfitLossData{}, core.Date{}, core.Date{}, err
	}

	summary, err := s.ledger.Summarize(r.Context(), user.ID)
	if err != nil {
		return reports.ProfitLossData{}, core.Date{}, core.Date{}, err
	}

	return reports.ProfitLossData{
		CompanyName:  user.CompanyName,
		PeriodLabel:  fmt.Sprintf("%s s/d %s", start, end),
		TotalRevenue: summary.TotalRevenue,
		TotalExpense: summary.TotalExpense,
		NetIncome:    summary.NetIncome,
	}, start, end, nil
}

func (s *Server) handleProfitLossPDF(w http.ResponseWriter, r *http.Request) {
	data, start, end, err := s.profitLossData(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := reports.RenderProfitLossPDF(data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	serveAttachment(w, reports.MIMEType(reports.PDF),
		reports.ProfitLossFilename(start.String(), end.String(), reports.PDF), doc)
}

func (s *Server) handleProfitLossExcel(w http.ResponseWriter, r *http.Request) {
	data, start, end, err := s.profitLossData(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := reports.RenderProfitLossExcel(data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	serveAttachment(w, reports.MIMEType(reports.Excel),
		reports.ProfitLossFilename(start.String(), end.String(), reports.Excel), doc)
}

func (s *Server) handleBalanceSheetPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
		return
	}

	now := time.Now().UTC()
	reportDate := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if v := r.URL.Query().Get("report_date"); v != "" {
		var err error
		if reportDate, err = core.ParseDate(v); err != nil {
			writeError(w, r, err)
			return
		}
	}

	_, grouped, err := s.ledger.ReportData(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := reports.BalanceSheetData{
		CompanyName: user.CompanyName,
		DateLabel:   reportDate.String(),
		Assets:      accountLines(grouped[core.Asset]),
		Liabilities: accountLines(grouped[core.Liability]),
		Equity:      accountLines(grouped[core.Equity]),
	}

	doc, err := reports.RenderBalanceSheetPDF(data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	serveAttachment(w, reports.MIMEType(reports.PDF),
		reports.BalanceSheetFilename(reportDate.String()), doc)
}

func accountLines(accounts []core.Account) []reports.AccountLine {
	lines := make([]reports.AccountLine, len(accounts))
	for i, a := range accounts {
		lines[i] = reports.AccountLine{Name: a.Name, Balance: a.Balance}
	}
	return lines
}

func serveAttachment(w http.ResponseWriter, mimeType, filename string, body []byte) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
