package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS pptx_texts (
	id                 SERIAL PRIMARY KEY,
	filename           TEXT NOT NULL,
	original_file_path TEXT NOT NULL,
	checksum           TEXT NOT NULL UNIQUE,
	text               TEXT NOT NULL,
	slide_count        INTEGER NOT NULL DEFAULT 0,
	text_run_count     INTEGER NOT NULL DEFAULT 0,
	ai_summary         TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewConnection(connectStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	log.Println("Database connection established")
	return db, nil
}

// EnsureSchema creates the tables used by the service if they are missing.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}
