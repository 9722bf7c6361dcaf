package handlers

import (
	"net/http"
	"time"

	"fintrack/middleware"
)

// GetDashboard returns the dashboard summary: all-time totals, current-month
// figures, expense breakdown, budget alerts, and savings goals.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	summary, err := h.dashboards.Summary(r.Context(), user.ID, time.Now())
	if err != nil {
		h.serverError(w, r, "failed to build dashboard summary", err)
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

// GetMonthlyAnalytics returns the 12-month income/expense trend, oldest
// month first.
func (h *Handler) GetMonthlyAnalytics(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	trend, err := h.dashboards.MonthlyTrend(r.Context(), user.ID, time.Now())
	if err != nil {
		h.serverError(w, r, "failed to build monthly trend", err)
		return
	}

	h.respondJSON(w, http.StatusOK, trend)
}
