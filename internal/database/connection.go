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

// Type returns the configured database driver, sqlite by default
func Type() string {
	if t := os.Getenv("DB_TYPE"); t != "" {
		return t
	}
	return "sqlite"
}

// Connect establishes a connection to the database and initializes the schema
func Connect() error {
	if Type() == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "studyplan.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

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
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if Type() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	// Create users table
	_, err := DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS users (
			id %s,
			name TEXT NOT NULL,
			profile_name TEXT NOT NULL DEFAULT 'balanced',
			daily_hours REAL NOT NULL DEFAULT 2,
			planning_hour INTEGER NOT NULL DEFAULT 8,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create subtopics table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS subtopics (
			id %s,
			topic TEXT NOT NULL,
			name TEXT NOT NULL,
			estimated_hours REAL NOT NULL DEFAULT 1,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(topic, name)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create subtopics table: %v", err)
	}

	// Create memory_states table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS memory_states (
			id %s,
			user_id INTEGER NOT NULL,
			subtopic_id INTEGER NOT NULL,
			difficulty REAL NOT NULL DEFAULT 0,
			stability REAL NOT NULL DEFAULT 0,
			state TEXT NOT NULL DEFAULT 'new',
			due TIMESTAMP NOT NULL,
			last_review TIMESTAMP,
			review_count INTEGER NOT NULL DEFAULT 0,
			last_rating INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (subtopic_id) REFERENCES subtopics(id),
			UNIQUE(user_id, subtopic_id)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create memory_states table: %v", err)
	}

	// Create day_capacities table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS day_capacities (
			id %s,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			exception_hours REAL NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			UNIQUE(user_id, date)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create day_capacities table: %v", err)
	}

	// Create study_schedule table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS study_schedule (
			id %s,
			user_id INTEGER NOT NULL,
			subtopic_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			hours REAL NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (subtopic_id) REFERENCES subtopics(id)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create study_schedule table: %v", err)
	}

	return nil
}
