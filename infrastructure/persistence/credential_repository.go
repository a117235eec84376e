package persistence

import (
	"context"
	"database/sql"
	"time"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
)

const credentialColumns = `id, user_id, reddit_username, reddit_id, app_variant, refresh_token, scopes, is_active, created_at, updated_at`

// CredentialRepository implements linked-account persistence on PostgreSQL.
type CredentialRepository struct{ db *sql.DB }

func NewCredentialRepository(db *sql.DB) repository.ICredential {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Upsert(ctx context.Context, cred *model.Credential) error {
	now := time.Now().UTC()
	cred.CreatedAt = now
	cred.UpdatedAt = now
	q := `INSERT INTO reddit_credentials (user_id, reddit_username, reddit_id, app_variant, refresh_token, scopes, is_active, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,TRUE,$7,$8)
		  ON CONFLICT (user_id, reddit_username, app_variant) DO UPDATE
		  SET reddit_id=EXCLUDED.reddit_id, refresh_token=EXCLUDED.refresh_token, scopes=EXCLUDED.scopes, is_active=TRUE, updated_at=EXCLUDED.updated_at
		  RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		cred.UserID, cred.RedditUsername, cred.RedditID, cred.AppVariant,
		cred.RefreshToken, cred.Scopes, cred.CreatedAt, cred.UpdatedAt,
	).Scan(&cred.ID, &cred.CreatedAt)
}

func (r *CredentialRepository) Get(ctx context.Context, id int64, userID string) (*model.Credential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+credentialColumns+` FROM reddit_credentials WHERE id=$1 AND user_id=$2`, id, userID)
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

func (r *CredentialRepository) ListActive(ctx context.Context, userID string) ([]*model.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM reddit_credentials WHERE user_id=$1 AND is_active=TRUE ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCredentials(rows)
}

func (r *CredentialRepository) ListByUser(ctx context.Context, userID string) ([]*model.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM reddit_credentials WHERE user_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCredentials(rows)
}

func (r *CredentialRepository) Deactivate(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reddit_credentials SET is_active=FALSE, updated_at=$1 WHERE id=$2 AND user_id=$3`,
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *CredentialRepository) Delete(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reddit_credentials WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func scanCredential(row rowScanner) (*model.Credential, error) {
	c := &model.Credential{}
	if err := row.Scan(&c.ID, &c.UserID, &c.RedditUsername, &c.RedditID, &c.AppVariant, &c.RefreshToken, &c.Scopes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func collectCredentials(rows *sql.Rows) ([]*model.Credential, error) {
	var list []*model.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
