package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"fintrack/services"

	"go.uber.org/zap"
)

// Handler holds the dependencies shared by all HTTP handlers. Everything is
// injected at startup; there is no package-level state.
type Handler struct {
	db            *sql.DB
	sessions      *services.SessionService
	dashboards    *services.DashboardService
	logger        *zap.Logger
	secureCookies bool
	staticDir     string
}

// New creates a Handler.
func New(db *sql.DB, sessions *services.SessionService, dashboards *services.DashboardService, logger *zap.Logger, secureCookies bool, staticDir string) *Handler {
	return &Handler{
		db:            db,
		sessions:      sessions,
		dashboards:    dashboards,
		logger:        logger,
		secureCookies: secureCookies,
		staticDir:     staticDir,
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// serverError logs the underlying error server-side and sends a generic
// message; internals are never echoed to the client.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, zap.Error(err), zap.String("path", r.URL.Path), zap.String("method", r.Method))
	h.respondError(w, http.StatusInternalServerError, "Internal server error")
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
