package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureSchema creates the PostgreSQL tables used by the posting core if they
// are missing. Safe to call at startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			user_name TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS reddit_credentials (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			reddit_username VARCHAR(100) NOT NULL,
			reddit_id VARCHAR(50) NOT NULL DEFAULT '',
			app_variant VARCHAR(20) NOT NULL,
			refresh_token TEXT NOT NULL,
			scopes TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, reddit_username, app_variant)
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			title VARCHAR(300) NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			subreddit VARCHAR(100) NOT NULL,
			credential_id BIGINT REFERENCES reddit_credentials(id) ON DELETE SET NULL,
			post_now BOOLEAN NOT NULL DEFAULT TRUE,
			scheduled_time TIMESTAMPTZ,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			in_flight BOOLEAN NOT NULL DEFAULT FALSE,
			reddit_post_id VARCHAR(64) NOT NULL DEFAULT '',
			reddit_url TEXT NOT NULL DEFAULT '',
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_status ON posts (user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_status_scheduled ON posts (status, scheduled_time)`,
		`CREATE TABLE IF NOT EXISTS link_challenges (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			state VARCHAR(100) NOT NULL UNIQUE,
			app_variant VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_link_challenges_created_at ON link_challenges (created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
