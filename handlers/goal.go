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

type goalRequest struct {
	Name     string      `json:"name"`
	Target   json.Number `json:"target"`
	Priority string      `json:"priority"`
	Deadline string      `json:"deadline"`
}

type goalUpdateRequest struct {
	Current *json.Number `json:"current"`
}

// GetGoals lists the caller's savings goals with derived progress fields.
func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, user_id, name, target, current, deadline, priority
		FROM savings_goals
		WHERE user_id = ?
		ORDER BY id
	`, user.ID)
	if err != nil {
		h.serverError(w, r, "failed to query goals", err)
		return
	}
	defer rows.Close()

	goals := []models.SavingsGoal{}
	for rows.Next() {
		var g models.SavingsGoal
		var deadline sql.NullTime
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Current, &deadline, &g.Priority); err != nil {
			h.serverError(w, r, "failed to scan goal", err)
			return
		}
		if deadline.Valid {
			g.Deadline = &deadline.Time
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		h.serverError(w, r, "failed to read goals", err)
		return
	}

	h.respondJSON(w, http.StatusOK, goals)
}

// AddGoal creates a new savings goal.
func (h *Handler) AddGoal(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	target, err := req.Target.Float64()
	if err != nil || target <= 0 {
		h.respondError(w, http.StatusBadRequest, "target must be a positive number")
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if priority != models.PriorityLow && priority != models.PriorityMedium && priority != models.PriorityHigh {
		h.respondError(w, http.StatusBadRequest, "priority must be low, medium or high")
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		d, err := time.Parse(models.DeadlineFormat, req.Deadline)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid deadline format, expected YYYY-MM-DD")
			return
		}
		deadline = &d
	}

	res, err := h.db.ExecContext(r.Context(), `
		INSERT INTO savings_goals (user_id, name, target, priority, deadline)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, req.Name, target, priority, deadline)
	if err != nil {
		h.serverError(w, r, "failed to insert goal", err)
		return
	}
	id, err := res.LastInsertId()
	if err != nil {
		h.serverError(w, r, "failed to read new goal id", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, models.SavingsGoal{
		ID:       id,
		UserID:   user.ID,
		Name:     req.Name,
		Target:   target,
		Current:  0,
		Deadline: deadline,
		Priority: priority,
	})
}

// UpdateGoal sets the saved amount on a goal. The amount is not clamped to
// the target, so progress past 100% is allowed.
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Not found")
		return
	}

	var req goalUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var g models.SavingsGoal
	var deadline sql.NullTime
	err = h.db.QueryRowContext(r.Context(), `
		SELECT id, user_id, name, target, current, deadline, priority
		FROM savings_goals
		WHERE id = ? AND user_id = ?
	`, id, user.ID).Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Current, &deadline, &g.Priority)
	if err == sql.ErrNoRows {
		h.respondError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		h.serverError(w, r, "failed to query goal", err)
		return
	}
	if deadline.Valid {
		g.Deadline = &deadline.Time
	}

	if req.Current != nil {
		current, err := req.Current.Float64()
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "current must be a number")
			return
		}
		if _, err := h.db.ExecContext(r.Context(),
			"UPDATE savings_goals SET current = ? WHERE id = ?", current, g.ID); err != nil {
			h.serverError(w, r, "failed to update goal", err)
			return
		}
		g.Current = current
	}

	h.respondJSON(w, http.StatusOK, g)
}

// DeleteGoal removes a goal by id, scoped to the caller.
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Not found")
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"DELETE FROM savings_goals WHERE id = ? AND user_id = ?", id, user.ID)
	if err != nil {
		h.serverError(w, r, "failed to delete goal", err)
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
