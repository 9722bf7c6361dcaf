package main

import (
	"fmt"
	"log"

	"fintrack/config"
	"fintrack/database"
	"fintrack/migrations"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Standalone migration runner, for applying schema changes without starting
// the server.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.RunMigrations(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	fmt.Println("Migrations completed successfully!")
}
