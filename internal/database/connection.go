package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection for the given driver: "sqlite" (a file
// under the data directory) or "postgres" (DSN from DATABASE_URL).
func Connect(driver string) error {
	switch driver {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		return ConnectDSN("postgres", dsn)
	case "sqlite", "":
		// Create data directory if it doesn't exist
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		return ConnectDSN("sqlite3", filepath.Join(dataDir, "phrasetrainer.db"))
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

// ConnectDSN opens a specific driver/DSN pair and initializes the schema.
func ConnectDSN(driver, dsn string) error {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if driver == "sqlite3" {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS phrase_history (
			phrase_id TEXT PRIMARY KEY,
			first_seen_date DATE NOT NULL,
			last_played_date DATE NOT NULL,
			next_due_date DATE NOT NULL,
			fib_index INTEGER NOT NULL DEFAULT 1,
			miss_count INTEGER NOT NULL DEFAULT 0,
			hesitation_flag BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create phrase_history table: %v", err)
	}
	return nil
}
