package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"bukukas/internal/core"
	"bukukas/internal/services"
)

type createTransactionRequest struct {
	Date         core.Date       `json:"date"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	AccountID    string          `json:"account_id"`
	ReceiptImage string          `json:"receipt_image"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
		return
	}

	txn, err := s.ledger.Post(r.Context(), user.ID, services.PostInput{
		AccountID:    req.AccountID,
		Date:         req.Date,
		Description:  req.Description,
		Amount:       req.Amount,
		ReceiptImage: req.ReceiptImage,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
		return
	}

	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	txns, err := s.ledger.List(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.ledger.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

func (s *Server) handleFinancialSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
		return
	}

	summary, err := s.ledger.Summarize(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// listFilterFromQuery parses limit, offset and account_id query parameters.
// Missing values fall back to the service defaults.
func listFilterFromQuery(r *http.Request) (core.ListFilter, error) {
	var filter core.ListFilter
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return core.ListFilter{}, core.ErrInvalidPagination
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return core.ListFilter{}, core.ErrInvalidPagination
		}
		filter.Offset = n
	}
	filter.AccountID = q.Get("account_id")

	return filter, nil
}
