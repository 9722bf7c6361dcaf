package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/middleware"
	"fintrack/models"

	"github.com/gorilla/mux"
)

type budgetRequest struct {
	Category       string       `json:"category"`
	Limit          json.Number  `json:"limit"`
	Month          string       `json:"month"`
	AlertThreshold *json.Number `json:"alert_threshold"`
}

// GetBudgets lists the caller's budgets.
func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, user_id, category, spending_limit, month, alert_threshold
		FROM budgets
		WHERE user_id = ?
		ORDER BY category
	`, user.ID)
	if err != nil {
		h.serverError(w, r, "failed to query budgets", err)
		return
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit, &b.Month, &b.AlertThreshold); err != nil {
			h.serverError(w, r, "failed to scan budget", err)
			return
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		h.serverError(w, r, "failed to read budgets", err)
		return
	}

	h.respondJSON(w, http.StatusOK, budgets)
}

// UpsertBudget creates a budget, or updates the existing one for the same
// category in place. The UNIQUE(user_id, category) constraint makes the
// operation race-safe: concurrent posts for one category cannot duplicate it.
func (h *Handler) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		h.respondError(w, http.StatusBadRequest, "category is required")
		return
	}
	limit, err := req.Limit.Float64()
	if err != nil || limit <= 0 {
		h.respondError(w, http.StatusBadRequest, "limit must be a positive number")
		return
	}

	month := req.Month
	if month != "" {
		if _, err := time.Parse(models.MonthFormat, month); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid month format, expected YYYY-MM")
			return
		}
	}

	threshold := float64(models.DefaultAlertThreshold)
	if req.AlertThreshold != nil {
		threshold, err = req.AlertThreshold.Float64()
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "alert_threshold must be a number")
			return
		}
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		h.serverError(w, r, "failed to begin transaction", err)
		return
	}
	defer tx.Rollback()

	var existingID int64
	var existingMonth string
	err = tx.QueryRow(
		"SELECT id, month FROM budgets WHERE user_id = ? AND category = ?",
		user.ID, req.Category,
	).Scan(&existingID, &existingMonth)

	budget := models.Budget{
		UserID:         user.ID,
		Category:       req.Category,
		Limit:          limit,
		AlertThreshold: threshold,
	}

	status := http.StatusOK
	switch {
	case err == sql.ErrNoRows:
		if month == "" {
			month = time.Now().Format(models.MonthFormat)
		}
		res, err := tx.Exec(`
			INSERT INTO budgets (user_id, category, spending_limit, month, alert_threshold)
			VALUES (?, ?, ?, ?, ?)
		`, user.ID, req.Category, limit, month, threshold)
		if err != nil {
			h.serverError(w, r, "failed to insert budget", err)
			return
		}
		budget.ID, err = res.LastInsertId()
		if err != nil {
			h.serverError(w, r, "failed to read new budget id", err)
			return
		}
		status = http.StatusCreated
	case err != nil:
		h.serverError(w, r, "failed to query budget", err)
		return
	default:
		// An omitted month leaves the stored one alone.
		if month == "" {
			month = existingMonth
		}
		_, err := tx.Exec(`
			UPDATE budgets SET spending_limit = ?, month = ?, alert_threshold = ?
			WHERE id = ?
		`, limit, month, threshold, existingID)
		if err != nil {
			h.serverError(w, r, "failed to update budget", err)
			return
		}
		budget.ID = existingID
	}
	budget.Month = month

	if err := tx.Commit(); err != nil {
		h.serverError(w, r, "failed to commit budget upsert", err)
		return
	}

	h.respondJSON(w, status, budget)
}

// DeleteBudget removes a budget by id, scoped to the caller.
func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Not found")
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"DELETE FROM budgets WHERE id = ? AND user_id = ?", id, user.ID)
	if err != nil {
		h.serverError(w, r, "failed to delete budget", err)
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		h.serverError(w, r, "failed to check delete result", err)
		return
	}
	if affected == 0 {
		h.respondError(w, http.StatusNotFound, "Not found")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
