package migrations

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// RunMigrations executes all migrations in order, skipping any that have
// already been applied according to the migrations tracking table.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := []struct {
		name string
		fn   func(*sql.DB) error
	}{
		{"base_schema", BaseSchema},
		{"add_budget_alert_threshold", AddBudgetAlertThreshold},
		{"add_recurring_transaction_fields", AddRecurringTransactionFields},
	}

	for _, migration := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", migration.name).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			logger.Debug("skipping already applied migration", zap.String("name", migration.name))
			continue
		}

		logger.Info("applying migration", zap.String("name", migration.name))
		if err := migration.fn(db); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.name, err)
		}
		if _, err := db.Exec("INSERT INTO migrations (name) VALUES (?)", migration.name); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
	}

	return nil
}
