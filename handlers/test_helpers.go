package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/migrations"
	"fintrack/models"
	"fintrack/security"
	"fintrack/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestHandler builds a Handler backed by a fresh in-memory database with
// the full schema applied.
func newTestHandler(t *testing.T) (*Handler, *sql.DB) {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.RunMigrations(db, zap.NewNop()))

	sessions := services.NewSessionService(db, 24*time.Hour)
	dashboards := services.NewDashboardService(db)
	return New(db, sessions, dashboards, zap.NewNop(), false, t.TempDir()), db
}

// createTestUser inserts a user with a real password hash so login flows can
// be exercised end to end.
func createTestUser(t *testing.T, db *sql.DB, username, email, password string) *models.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	res, err := db.Exec(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		username, email, hash,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	return &models.User{ID: id, Username: username, Email: email, PasswordHash: hash}
}

// authRequest builds a JSON request already carrying user in its context,
// the way the auth middleware would.
func authRequest(t *testing.T, method, url string, body interface{}, user *models.User) *http.Request {
	t.Helper()

	var req *http.Request
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewBuffer(buf))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	if user != nil {
		req = middleware.WithUser(req, user)
	}
	return req
}

// withVars attaches mux path variables to a request for handlers that read
// them, without routing through a full router.
func withVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

// insertTransaction seeds a transaction row directly.
func insertTransaction(t *testing.T, db *sql.DB, userID int64, txType, category string, amount float64, date time.Time) int64 {
	t.Helper()

	res, err := db.Exec(`
		INSERT INTO transactions (user_id, type, category, amount, description, date)
		VALUES (?, ?, ?, ?, '', ?)
	`, userID, txType, category, amount, date)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}
