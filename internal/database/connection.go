// Package database provides the sqlx-backed persistence layer: words, per-user
// word progress, daily aggregates, and the durable article cache.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens a database connection for the given driver ("sqlite3" or
// "postgres") and ensures the schema exists.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite3" {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS words (
				id %s,
				word TEXT NOT NULL UNIQUE,
				translation TEXT NOT NULL,
				definition TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS word_progress (
				id %s,
				user_id INTEGER NOT NULL,
				word_id INTEGER NOT NULL REFERENCES words(id),
				bucket TEXT NOT NULL DEFAULT 'needs_work',
				review_count INTEGER NOT NULL DEFAULT 0,
				correct_count INTEGER NOT NULL DEFAULT 0,
				incorrect_count INTEGER NOT NULL DEFAULT 0,
				last_reviewed_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL,
				UNIQUE(user_id, word_id)
			)
		`, idColumn),
		`
			CREATE TABLE IF NOT EXISTS daily_aggregates (
				user_id INTEGER NOT NULL,
				day TEXT NOT NULL,
				words_saved INTEGER NOT NULL DEFAULT 0,
				words_reviewed INTEGER NOT NULL DEFAULT 0,
				quizzes_completed INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (user_id, day)
			)
		`,
		`
			CREATE TABLE IF NOT EXISTS article_cache (
				key TEXT PRIMARY KEY,
				text TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				last_accessed_at TIMESTAMP NOT NULL,
				access_count INTEGER NOT NULL DEFAULT 0
			)
		`,
		`CREATE INDEX IF NOT EXISTS idx_article_cache_last_accessed ON article_cache(last_accessed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_word_progress_user ON word_progress(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
