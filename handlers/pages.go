package handlers

import (
	"net/http"
	"path/filepath"

	"fintrack/middleware"
)

// Index serves the landing/login page, or redirects signed-in users to the
// dashboard. Page content itself is static; all data flows through the API.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if h.hasValidSession(r) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.staticDir, "auth.html"))
}

// DashboardPage serves the dashboard page to signed-in users and bounces
// everyone else back to the landing page.
func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	if !h.hasValidSession(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.staticDir, "dashboard.html"))
}

func (h *Handler) hasValidSession(r *http.Request) bool {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = h.sessions.Validate(r.Context(), cookie.Value)
	return err == nil
}
