package http

import (
	"net/http"

	"bukukas/internal/core"
)

type createAccountRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Category string `json:"category"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
		return
	}

	accounts, err := s.ledger.Accounts(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
		return
	}

	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
		return
	}

	account, err := s.ledger.CreateAccount(r.Context(), user.ID, req.Name, req.Code, core.Category(req.Category))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}
