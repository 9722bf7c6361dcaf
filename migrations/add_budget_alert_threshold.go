package migrations

import "database/sql"

// AddBudgetAlertThreshold adds the percentage-of-limit column at which a
// budget starts producing dashboard alerts.
func AddBudgetAlertThreshold(db *sql.DB) error {
	_, err := db.Exec(`ALTER TABLE budgets ADD COLUMN alert_threshold REAL NOT NULL DEFAULT 80;`)
	return err
}
