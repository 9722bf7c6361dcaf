package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/api"
	"fintrack/config"
	"fintrack/database"
	"fintrack/migrations"
	"fintrack/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err), zap.String("path", cfg.DatabasePath))
	}
	defer db.Close()

	if err := migrations.RunMigrations(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := services.NewSessionService(db, cfg.SessionTTL)
	services.StartSessionSweeper(ctx, sessions, time.Hour, logger)

	srv := api.NewServer(cfg, db, sessions, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
