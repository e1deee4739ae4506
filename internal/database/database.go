package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "certprep_user")
	password := getEnv("DB_PASSWORD", "certprep_password")
	dbname := getEnv("DB_NAME", "certprep")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE EXTENSION IF NOT EXISTS pgcrypto;

	CREATE TABLE IF NOT EXISTS users (
		id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email                VARCHAR(255) UNIQUE NOT NULL,
		name                 VARCHAR(255) NOT NULL,
		target_certification VARCHAR(20),
		password             VARCHAR(255) NOT NULL,
		created_at           TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at           TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS content_items (
		content_id         UUID PRIMARY KEY,
		title              VARCHAR(500) NOT NULL,
		category           VARCHAR(100) NOT NULL,
		difficulty         VARCHAR(20) NOT NULL,
		certification_type VARCHAR(20) NOT NULL,
		content_kind       VARCHAR(30) NOT NULL,
		created_at         TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_content_category ON content_items(category, certification_type);
	CREATE INDEX IF NOT EXISTS idx_content_difficulty ON content_items(difficulty, certification_type);
	CREATE INDEX IF NOT EXISTS idx_content_certification ON content_items(certification_type);

	CREATE TABLE IF NOT EXISTS user_progress (
		id                 BIGSERIAL PRIMARY KEY,
		user_id            UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content_id         UUID NOT NULL,
		progress_kind      VARCHAR(20) NOT NULL,
		score              REAL CHECK (score >= 0 AND score <= 100),
		time_spent_seconds INT NOT NULL DEFAULT 0 CHECK (time_spent_seconds >= 0),
		occurred_at        TIMESTAMP WITH TIME ZONE NOT NULL,
		UNIQUE(user_id, content_id, occurred_at)
	);

	CREATE INDEX IF NOT EXISTS idx_progress_user ON user_progress(user_id, occurred_at DESC);
	CREATE INDEX IF NOT EXISTS idx_progress_user_content ON user_progress(user_id, content_id);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
