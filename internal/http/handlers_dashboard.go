package http

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// handleDashboardData composes (or serves from cache) the month dashboard.
// Without year/month query parameters the current month is used.
func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	uid := userID(r)

	key := fmt.Sprintf("dashboard:%d:%04d-%02d", uid, year, month)
	if payload, ok := s.dashCache.Get(key); ok {
		respondJSON(w, http.StatusOK, payload)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	payload, err := s.dashboards.Compose(ctx, uid, year, month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.dashCache.Set(key, payload)
	respondJSON(w, http.StatusOK, payload)
}

// handleDashboardBudget reports each active monthly budget against its
// actual spend.
func (s *Server) handleDashboardBudget(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rows, err := s.dashboards.BudgetVsActual(ctx, userID(r), year, month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
