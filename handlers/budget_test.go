package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertBudgetCreates(t *testing.T) {
	h, db := newTestHandler(t)
	user := createTestUser(t, db, "alice", "alice@example.com", "pw")

	w := httptest.NewRecorder()
	h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
		"category": "food",
		"limit":    500,
		"month":    "2026-08",
	}, user))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "food", resp["category"])
	assert.Equal(t, float64(500), resp["limit"])
	assert.Equal(t, "2026-08", resp["month"])
	assert.Equal(t, float64(models.DefaultAlertThreshold), resp["alert_threshold"])
}

func TestUpsertBudgetUpdatesInPlace(t *testing.T) {
	h, db := newTestHandler(t)
	user := createTestUser(t, db, "alice", "alice@example.com", "pw")

	w := httptest.NewRecorder()
	h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
		"category": "food", "limit": 500, "month": "2026-08",
	}, user))
	require.Equal(t, http.StatusCreated, w.Code)

	// Same category again replaces the limit instead of adding a row.
	w = httptest.NewRecorder()
	h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
		"category": "food", "limit": 650, "month": "2026-09", "alert_threshold": 90,
	}, user))
	require.Equal(t, http.StatusOK, w.Code)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM budgets WHERE user_id = ?", user.ID).Scan(&count))
	assert.Equal(t, 1, count)

	var limit, threshold float64
	var month string
	require.NoError(t, db.QueryRow(
		"SELECT spending_limit, month, alert_threshold FROM budgets WHERE user_id = ? AND category = 'food'",
		user.ID,
	).Scan(&limit, &month, &threshold))
	assert.Equal(t, float64(650), limit)
	assert.Equal(t, "2026-09", month)
	assert.Equal(t, float64(90), threshold)
}

func TestUpsertBudgetKeepsMonthWhenOmitted(t *testing.T) {
	h, db := newTestHandler(t)
	user := createTestUser(t, db, "alice", "alice@example.com", "pw")

	w := httptest.NewRecorder()
	h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
		"category": "food", "limit": 100, "month": "2025-01",
	}, user))
	require.Equal(t, http.StatusCreated, w.Code)

	// A month-less re-post bumps the limit but not the stored month.
	w = httptest.NewRecorder()
	h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
		"category": "food", "limit": 150,
	}, user))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "2025-01", resp["month"])

	var limit float64
	var month string
	require.NoError(t, db.QueryRow(
		"SELECT spending_limit, month FROM budgets WHERE user_id = ? AND category = 'food'",
		user.ID,
	).Scan(&limit, &month))
	assert.Equal(t, float64(150), limit)
	assert.Equal(t, "2025-01", month)
}

func TestUpsertBudgetSameCategoryDifferentUsers(t *testing.T) {
	h, db := newTestHandler(t)
	alice := createTestUser(t, db, "alice", "alice@example.com", "pw")
	bob := createTestUser(t, db, "bob", "bob@example.com", "pw")

	for _, user := range []*models.User{alice, bob} {
		w := httptest.NewRecorder()
		h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
			"category": "food", "limit": 300,
		}, user))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM budgets").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestUpsertBudgetValidation(t *testing.T) {
	h, db := newTestHandler(t)
	user := createTestUser(t, db, "alice", "alice@example.com", "pw")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing category", map[string]interface{}{"limit": 100}},
		{"zero limit", map[string]interface{}{"category": "food", "limit": 0}},
		{"negative limit", map[string]interface{}{"category": "food", "limit": -10}},
		{"bad month", map[string]interface{}{"category": "food", "limit": 100, "month": "August"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", tc.body, user))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpsertBudgetDefaultsMonth(t *testing.T) {
	h, db := newTestHandler(t)
	user := createTestUser(t, db, "alice", "alice@example.com", "pw")

	w := httptest.NewRecorder()
	h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
		"category": "food", "limit": 100,
	}, user))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, time.Now().Format(models.MonthFormat), resp["month"])
}

func TestGetBudgetsScopedToOwner(t *testing.T) {
	h, db := newTestHandler(t)
	alice := createTestUser(t, db, "alice", "alice@example.com", "pw")
	bob := createTestUser(t, db, "bob", "bob@example.com", "pw")

	w := httptest.NewRecorder()
	h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
		"category": "food", "limit": 100,
	}, alice))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.GetBudgets(w, authRequest(t, "GET", "/api/budgets", nil, bob))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestDeleteBudget(t *testing.T) {
	h, db := newTestHandler(t)
	user := createTestUser(t, db, "alice", "alice@example.com", "pw")

	w := httptest.NewRecorder()
	h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
		"category": "food", "limit": 100,
	}, user))
	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	id := int64(resp["id"].(float64))

	req := withVars(
		authRequest(t, "DELETE", fmt.Sprintf("/api/budgets/%d", id), nil, user),
		map[string]string{"id": fmt.Sprint(id)},
	)
	w = httptest.NewRecorder()
	h.DeleteBudget(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM budgets").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestDeleteBudgetForeign(t *testing.T) {
	h, db := newTestHandler(t)
	alice := createTestUser(t, db, "alice", "alice@example.com", "pw")
	bob := createTestUser(t, db, "bob", "bob@example.com", "pw")

	w := httptest.NewRecorder()
	h.UpsertBudget(w, authRequest(t, "POST", "/api/budgets", map[string]interface{}{
		"category": "food", "limit": 100,
	}, alice))
	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	id := int64(resp["id"].(float64))

	req := withVars(
		authRequest(t, "DELETE", fmt.Sprintf("/api/budgets/%d", id), nil, bob),
		map[string]string{"id": fmt.Sprint(id)},
	)
	w = httptest.NewRecorder()
	h.DeleteBudget(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
