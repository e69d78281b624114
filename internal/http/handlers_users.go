package http

import (
	"net/http"
)

type createUserRequest struct {
	Username    string `json:"username"`
	CreditScore *int   `json:"credit_score"`
}

type creditScoreRequest struct {
	CreditScore *int `json:"credit_score"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := s.svc.CreateUser(r.Context(), req.Username, req.CreditScore)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := s.svc.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateCreditScore(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req creditScoreRequest
	if err := decodeJSON(w, r, &req); err != nil || req.CreditScore == nil {
		writeError(w, http.StatusBadRequest, "body must be {\"credit_score\": <int>}")
		return
	}

	if err := s.svc.UpdateCreditScore(r.Context(), userID, *req.CreditScore); err != nil {
		writeServiceError(w, r, err)
		return
	}
	u, err := s.svc.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
