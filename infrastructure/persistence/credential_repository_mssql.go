package persistence

import (
	"context"
	"database/sql"
	"time"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
)

// CredentialRepositoryMSSQL implements linked-account persistence for SQL
// Server/Azure SQL using database/sql.
type CredentialRepositoryMSSQL struct{ db *sql.DB }

func NewCredentialRepositoryMSSQL(db *sql.DB) repository.ICredential {
	return &CredentialRepositoryMSSQL{db: db}
}

func (r *CredentialRepositoryMSSQL) Upsert(ctx context.Context, cred *model.Credential) error {
	now := time.Now().UTC()
	cred.UpdatedAt = now
	// MERGE for upsert, keyed on the ownership triple.
	q := `MERGE dbo.[reddit_credentials] AS target
USING (VALUES (@p1, @p2, @p3)) AS src(user_id, reddit_username, app_variant)
ON target.user_id = src.user_id AND target.reddit_username = src.reddit_username AND target.app_variant = src.app_variant
WHEN MATCHED THEN UPDATE SET
  reddit_id = @p4, refresh_token = @p5, scopes = @p6, is_active = 1, updated_at = @p7
WHEN NOT MATCHED THEN
  INSERT (user_id, reddit_username, reddit_id, app_variant, refresh_token, scopes, is_active, created_at, updated_at)
  VALUES (src.user_id, src.reddit_username, @p4, src.app_variant, @p5, @p6, 1, @p7, @p7);`
	if _, err := r.db.ExecContext(ctx, q,
		cred.UserID, cred.RedditUsername, cred.AppVariant,
		cred.RedditID, cred.RefreshToken, cred.Scopes, now,
	); err != nil {
		return err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM dbo.[reddit_credentials] WHERE user_id=@p1 AND reddit_username=@p2 AND app_variant=@p3`,
		cred.UserID, cred.RedditUsername, cred.AppVariant,
	)
	return row.Scan(&cred.ID, &cred.CreatedAt)
}

func (r *CredentialRepositoryMSSQL) Get(ctx context.Context, id int64, userID string) (*model.Credential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+credentialColumns+` FROM dbo.[reddit_credentials] WHERE id=@p1 AND user_id=@p2`, id, userID)
	cred, err := scanCredential(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !cred.IsActive {
		return nil, model.ErrCredentialInactive
	}
	return cred, nil
}

func (r *CredentialRepositoryMSSQL) ListActive(ctx context.Context, userID string) ([]*model.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM dbo.[reddit_credentials] WHERE user_id=@p1 AND is_active=1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCredentials(rows)
}

func (r *CredentialRepositoryMSSQL) ListByUser(ctx context.Context, userID string) ([]*model.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM dbo.[reddit_credentials] WHERE user_id=@p1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCredentials(rows)
}

func (r *CredentialRepositoryMSSQL) Deactivate(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[reddit_credentials] SET is_active=0, updated_at=@p1 WHERE id=@p2 AND user_id=@p3`,
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *CredentialRepositoryMSSQL) Delete(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[reddit_credentials] WHERE id=@p1 AND user_id=@p2`, id, userID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
