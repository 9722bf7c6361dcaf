package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"fintrack/config"
	"fintrack/handlers"
	"fintrack/middleware"
	"fintrack/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server wires the router, handlers, and services together. All dependencies
// are injected; nothing reaches for globals.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	logger     *zap.Logger
}

// NewServer builds a ready-to-run API server.
func NewServer(cfg config.Config, db *sql.DB, sessions *services.SessionService, logger *zap.Logger) *Server {
	dashboards := services.NewDashboardService(db)
	h := handlers.New(db, sessions, dashboards, logger, cfg.SecureCookies, cfg.StaticDir)

	r := mux.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	registerRoutes(r, h, sessions)

	// Static assets for the two server-rendered pages.
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		router: r,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests driving the API in-process.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// registerRoutes sets up all API and page routes.
func registerRoutes(r *mux.Router, h *handlers.Handler, sessions *services.SessionService) {
	api := r.PathPrefix("/api").Subrouter()

	// Public routes (no auth required)
	api.HandleFunc("/health", h.HealthCheck).Methods("GET", "OPTIONS")
	api.HandleFunc("/auth/signup", h.Signup).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	// Protected routes behind the session guard
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(sessions))

	protected.HandleFunc("/auth/me", h.Me).Methods("GET")

	protected.HandleFunc("/transactions", h.GetTransactions).Methods("GET")
	protected.HandleFunc("/transactions", h.AddTransaction).Methods("POST")
	protected.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")

	protected.HandleFunc("/budgets", h.GetBudgets).Methods("GET")
	protected.HandleFunc("/budgets", h.UpsertBudget).Methods("POST")
	protected.HandleFunc("/budgets/{id}", h.DeleteBudget).Methods("DELETE")

	protected.HandleFunc("/goals", h.GetGoals).Methods("GET")
	protected.HandleFunc("/goals", h.AddGoal).Methods("POST")
	protected.HandleFunc("/goals/{id}", h.UpdateGoal).Methods("PUT")
	protected.HandleFunc("/goals/{id}", h.DeleteGoal).Methods("DELETE")

	protected.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
	protected.HandleFunc("/analytics/monthly", h.GetMonthlyAnalytics).Methods("GET")

	// Browser pages
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/dashboard", h.DashboardPage).Methods("GET")
}
