package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/security"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup creates a user account and opens a session for it.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		h.serverError(w, r, "failed to hash password", err)
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		h.serverError(w, r, "failed to begin transaction", err)
		return
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", req.Username).Scan(&count); err != nil {
		h.serverError(w, r, "failed to check username", err)
		return
	}
	if count > 0 {
		h.respondError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if err := tx.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", req.Email).Scan(&count); err != nil {
		h.serverError(w, r, "failed to check email", err)
		return
	}
	if count > 0 {
		h.respondError(w, http.StatusBadRequest, "Email already exists")
		return
	}

	res, err := tx.Exec(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		req.Username, req.Email, hash,
	)
	if err != nil {
		// A concurrent signup can slip past the checks above; the unique
		// constraints are the actual arbiter.
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			h.respondError(w, http.StatusBadRequest, "Username or email already exists")
			return
		}
		h.serverError(w, r, "failed to create user", err)
		return
	}
	userID, err := res.LastInsertId()
	if err != nil {
		h.serverError(w, r, "failed to read new user id", err)
		return
	}
	if err := tx.Commit(); err != nil {
		h.serverError(w, r, "failed to commit signup", err)
		return
	}

	session, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		h.serverError(w, r, "failed to create session", err)
		return
	}
	h.setSessionCookie(w, session)

	h.logger.Info("user signed up", zap.Int64("user_id", userID), zap.String("username", req.Username))
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "user_id": userID})
}

// Login verifies credentials and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Missing credentials")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	var user models.User
	err := h.db.QueryRowContext(r.Context(),
		"SELECT id, username, email, password_hash FROM users WHERE username = ?",
		req.Username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if err == sql.ErrNoRows || (err == nil && !security.CheckPassword(req.Password, user.PasswordHash)) {
		h.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.serverError(w, r, "failed to query user", err)
		return
	}

	session, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, "failed to create session", err)
		return
	}
	h.setSessionCookie(w, session)

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user_id": user.ID})
}

// Logout closes the current session. Logging out without one is not an error.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to delete session", zap.Error(err))
		}
	}
	h.clearSessionCookie(w)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Me returns the authenticated user's identity, never the password hash.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		h.respondError(w, http.StatusUnauthorized, "Login required")
		return
	}

	// The account may have been deleted after the session was issued.
	var u models.User
	err := h.db.QueryRowContext(r.Context(),
		"SELECT id, username, email FROM users WHERE id = ?", user.ID,
	).Scan(&u.ID, &u.Username, &u.Email)
	if err == sql.ErrNoRows {
		h.respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.serverError(w, r, "failed to query user", err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
