package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureSchemaMSSQL creates the SQL Server tables used by the posting core if
// they are missing.
func EnsureSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createIfMissing := func(table, ddl string) error {
		q := fmt.Sprintf(`IF OBJECT_ID('dbo.%s', 'U') IS NULL BEGIN %s END`, table, ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure table dbo.%s: %w", table, err)
		}
		return nil
	}

	if err := createIfMissing("users", `CREATE TABLE dbo.[users] (
		id INT IDENTITY(1,1) PRIMARY KEY,
		name NVARCHAR(255) NOT NULL,
		user_name NVARCHAR(255) NOT NULL UNIQUE,
		password NVARCHAR(255) NOT NULL,
		created_at DATETIME2 NOT NULL DEFAULT SYSDATETIME(),
		updated_at DATETIME2 NOT NULL DEFAULT SYSDATETIME()
	)`); err != nil {
		return err
	}
	if err := createIfMissing("reddit_credentials", `CREATE TABLE dbo.[reddit_credentials] (
		id BIGINT IDENTITY(1,1) PRIMARY KEY,
		user_id NVARCHAR(255) NOT NULL,
		reddit_username NVARCHAR(100) NOT NULL,
		reddit_id NVARCHAR(50) NOT NULL DEFAULT '',
		app_variant NVARCHAR(20) NOT NULL,
		refresh_token NVARCHAR(MAX) NOT NULL,
		scopes NVARCHAR(MAX) NOT NULL DEFAULT '',
		is_active BIT NOT NULL DEFAULT 1,
		created_at DATETIME2 NOT NULL,
		updated_at DATETIME2 NOT NULL,
		CONSTRAINT uq_credentials_owner UNIQUE (user_id, reddit_username, app_variant)
	)`); err != nil {
		return err
	}
	if err := createIfMissing("posts", `CREATE TABLE dbo.[posts] (
		id BIGINT IDENTITY(1,1) PRIMARY KEY,
		user_id NVARCHAR(255) NOT NULL,
		title NVARCHAR(300) NOT NULL,
		content NVARCHAR(MAX) NOT NULL DEFAULT '',
		subreddit NVARCHAR(100) NOT NULL,
		credential_id BIGINT NULL REFERENCES dbo.[reddit_credentials](id) ON DELETE SET NULL,
		post_now BIT NOT NULL DEFAULT 1,
		scheduled_time DATETIME2 NULL,
		status NVARCHAR(20) NOT NULL DEFAULT 'pending',
		in_flight BIT NOT NULL DEFAULT 0,
		reddit_post_id NVARCHAR(64) NOT NULL DEFAULT '',
		reddit_url NVARCHAR(MAX) NOT NULL DEFAULT '',
		error_message NVARCHAR(MAX) NULL,
		created_at DATETIME2 NOT NULL,
		updated_at DATETIME2 NOT NULL
	);
	CREATE INDEX idx_posts_user_status ON dbo.[posts] (user_id, status);
	CREATE INDEX idx_posts_status_scheduled ON dbo.[posts] (status, scheduled_time)`); err != nil {
		return err
	}
	if err := createIfMissing("link_challenges", `CREATE TABLE dbo.[link_challenges] (
		id BIGINT IDENTITY(1,1) PRIMARY KEY,
		user_id NVARCHAR(255) NOT NULL,
		state NVARCHAR(100) NOT NULL UNIQUE,
		app_variant NVARCHAR(20) NOT NULL,
		created_at DATETIME2 NOT NULL
	);
	CREATE INDEX idx_link_challenges_created_at ON dbo.[link_challenges] (created_at)`); err != nil {
		return err
	}
	return nil
}
