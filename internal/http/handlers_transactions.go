package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fincoach/internal/core"
)

// transactionRequest is the create/update body. Date accepts RFC 3339 or YYYY-MM-DD.
type transactionRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
	}, nil
}

// readTransaction decodes the body and the user id, writing a 400 on failure.
func readTransaction(w http.ResponseWriter, r *http.Request) (int64, core.Transaction, bool) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, core.Transaction{}, false
	}
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return 0, core.Transaction{}, false
	}
	t, err := req.toTransaction()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, core.Transaction{}, false
	}
	return userID, t, true
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, t, ok := readTransaction(w, r)
	if !ok {
		return
	}

	created, err := s.svc.CreateTransaction(r.Context(), userID, t)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.svc.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.svc.GetTransaction(r.Context(), userID, chi.URLParam(r, "txID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, t, ok := readTransaction(w, r)
	if !ok {
		return
	}
	t.ID = chi.URLParam(r, "txID")

	updated, err := s.svc.UpdateTransaction(r.Context(), userID, t)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.svc.DeleteTransaction(r.Context(), userID, chi.URLParam(r, "txID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
