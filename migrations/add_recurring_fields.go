package migrations

import "database/sql"

// AddRecurringTransactionFields adds the recurring flag and frequency columns
// to transactions.
func AddRecurringTransactionFields(db *sql.DB) error {
	statements := []string{
		`ALTER TABLE transactions ADD COLUMN is_recurring BOOLEAN NOT NULL DEFAULT 0;`,
		`ALTER TABLE transactions ADD COLUMN recurring_frequency TEXT;`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
