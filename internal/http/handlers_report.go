package http

import (
	"net/http"
)

// handleReport returns {report, advice} for the user's current data.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.svc.Report(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result.Advice = nonNil(result.Advice)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.svc.Summary(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
