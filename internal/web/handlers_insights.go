package web

import "net/http"

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	report, err := s.habits.Insights(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate insights: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.habits.Goals(r.Context()))
}
