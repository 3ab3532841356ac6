package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/config"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/logger"
)

// ConnectPostgres ouvre le pool de connexions et vérifie que la base répond
func ConnectPostgres(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	logger.Success("Connected to PostgreSQL")

	return pool, nil
}

// EnsureSchema crée les tables et la séquence d'ids si elles n'existent pas
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := []string{
		`CREATE SEQUENCE IF NOT EXISTS bug_number_seq START 1`,
		`CREATE TABLE IF NOT EXISTS bugs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'medium',
			status TEXT NOT NULL DEFAULT 'open',
			assignee TEXT,
			reporter TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			due_date TIMESTAMPTZ,
			tags TEXT[] NOT NULL DEFAULT '{}',
			steps_to_reproduce TEXT[],
			expected_behavior TEXT,
			actual_behavior TEXT,
			env_platform TEXT,
			env_version TEXT,
			env_device TEXT,
			env_browser TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS bug_comments (
			id TEXT PRIMARY KEY,
			bug_id TEXT NOT NULL REFERENCES bugs(id) ON DELETE CASCADE,
			author TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS bug_attachments (
			id TEXT PRIMARY KEY,
			bug_id TEXT NOT NULL REFERENCES bugs(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			size BIGINT NOT NULL DEFAULT 0,
			mime_type TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bugs_updated_at ON bugs(updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_bug_comments_bug_id ON bug_comments(bug_id)`,
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}

	return nil
}
