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

type transactionRequest struct {
	Type               string      `json:"type"`
	Category           string      `json:"category"`
	Amount             json.Number `json:"amount"`
	Description        string      `json:"description"`
	Date               string      `json:"date"`
	IsRecurring        bool        `json:"is_recurring"`
	RecurringFrequency string      `json:"recurring_frequency"`
}

// GetTransactions lists the caller's transactions, newest first.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, user_id, type, category, amount, description, date, is_recurring, recurring_frequency
		FROM transactions
		WHERE user_id = ?
		ORDER BY date DESC
	`, user.ID)
	if err != nil {
		h.serverError(w, r, "failed to query transactions", err)
		return
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var frequency sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount, &t.Description, &t.Date, &t.IsRecurring, &frequency); err != nil {
			h.serverError(w, r, "failed to scan transaction", err)
			return
		}
		t.RecurringFrequency = frequency.String
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		h.serverError(w, r, "failed to read transactions", err)
		return
	}

	h.respondJSON(w, http.StatusOK, transactions)
}

// AddTransaction records a new income or expense movement.
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Type != models.TransactionIncome && req.Type != models.TransactionExpense {
		h.respondError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		h.respondError(w, http.StatusBadRequest, "category is required")
		return
	}
	amount, err := req.Amount.Float64()
	if err != nil || amount < 0 {
		h.respondError(w, http.StatusBadRequest, "amount must be a non-negative number")
		return
	}

	date := time.Now()
	if req.Date != "" {
		date, err = parseTransactionDate(req.Date)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
			return
		}
	}

	var frequency interface{}
	if req.RecurringFrequency != "" {
		frequency = req.RecurringFrequency
	}

	res, err := h.db.ExecContext(r.Context(), `
		INSERT INTO transactions (user_id, type, category, amount, description, date, is_recurring, recurring_frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, req.Type, req.Category, amount, req.Description, date, req.IsRecurring, frequency)
	if err != nil {
		h.serverError(w, r, "failed to insert transaction", err)
		return
	}
	id, err := res.LastInsertId()
	if err != nil {
		h.serverError(w, r, "failed to read new transaction id", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, models.Transaction{
		ID:                 id,
		UserID:             user.ID,
		Type:               req.Type,
		Category:           req.Category,
		Amount:             amount,
		Description:        req.Description,
		Date:               date,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: req.RecurringFrequency,
	})
}

// DeleteTransaction removes a transaction by id, scoped to the caller.
// Someone else's transaction looks identical to a missing one.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Not found")
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"DELETE FROM transactions WHERE id = ? AND user_id = ?", id, user.ID)
	if err != nil {
		h.serverError(w, r, "failed to delete transaction", err)
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

func parseTransactionDate(s string) (time.Time, error) {
	if t, err := time.Parse(models.DeadlineFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(models.DateFormat, s)
}
