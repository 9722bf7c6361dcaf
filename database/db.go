package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the sqlite database at path and configures it for concurrent
// request handling. Foreign keys are enabled so that deleting a user cascades
// to everything the user owns.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_journal=WAL&_busy_timeout=10000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
