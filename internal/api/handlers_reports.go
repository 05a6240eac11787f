package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// handlePortfolio handles GET /api/v1/reports/portfolio
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Portfolio(r.Context())
	if err != nil {
		respondCategorized(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// handleDueToday handles GET /api/v1/reports/due-today
func (s *Server) handleDueToday(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.DueToday(r.Context())
	if err != nil {
		respondCategorized(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// handleDueTomorrow handles GET /api/v1/reports/due-tomorrow
func (s *Server) handleDueTomorrow(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.DueTomorrow(r.Context())
	if err != nil {
		respondCategorized(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// handleDueWeek handles GET /api/v1/reports/week
func (s *Server) handleDueWeek(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.DueWeek(r.Context())
	if err != nil {
		respondCategorized(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// handleBalances handles GET /api/v1/reports/balances
func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Balances(r.Context())
	if err != nil {
		respondCategorized(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// handleAlerts handles GET /api/v1/reports/alerts
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Alerts(r.Context())
	if err != nil {
		respondCategorized(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// handleSummary handles GET /api/v1/reports/summary
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.ExecutiveSummary(r.Context())
	if err != nil {
		respondCategorized(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// handleCUITLookup handles GET /api/v1/reports/cuit/{term}
func (s *Server) handleCUITLookup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	term := vars["term"]
	if term == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "lookup term is required", nil)
		return
	}

	rep, err := s.reports.CUITLookup(r.Context(), term)
	if err != nil {
		respondCategorized(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}
