package persistence

import (
	"context"
	"database/sql"
	"time"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
)

// PostRepositoryMSSQL implements post persistence for SQL Server/Azure SQL
// using database/sql.
type PostRepositoryMSSQL struct{ db *sql.DB }

func NewPostRepositoryMSSQL(db *sql.DB) repository.IPost { return &PostRepositoryMSSQL{db: db} }

func (r *PostRepositoryMSSQL) Create(ctx context.Context, p *model.Post) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	q := `INSERT INTO dbo.[posts] (user_id, title, content, subreddit, credential_id, post_now, scheduled_time, status, in_flight, reddit_post_id, reddit_url, error_message, created_at, updated_at)
OUTPUT INSERTED.id
VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9,@p10,@p11,@p12,@p13,@p14)`
	return r.db.QueryRowContext(ctx, q,
		p.UserID, p.Title, p.Content, p.Subreddit, p.CredentialID, p.PostNow,
		p.ScheduledTime, p.Status, p.InFlight, p.RedditPostID, p.RedditURL,
		p.ErrorMessage, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *PostRepositoryMSSQL) Update(ctx context.Context, p *model.Post) error {
	p.UpdatedAt = time.Now().UTC()
	q := `UPDATE dbo.[posts] SET title=@p1, content=@p2, subreddit=@p3, credential_id=@p4, post_now=@p5, scheduled_time=@p6, status=@p7, in_flight=@p8, reddit_post_id=@p9, reddit_url=@p10, error_message=@p11, updated_at=@p12
WHERE id=@p13 AND user_id=@p14`
	res, err := r.db.ExecContext(ctx, q,
		p.Title, p.Content, p.Subreddit, p.CredentialID, p.PostNow,
		p.ScheduledTime, p.Status, p.InFlight, p.RedditPostID, p.RedditURL,
		p.ErrorMessage, p.UpdatedAt, p.ID, p.UserID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *PostRepositoryMSSQL) Delete(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[posts] WHERE id=@p1 AND user_id=@p2`, id, userID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *PostRepositoryMSSQL) GetByID(ctx context.Context, id int64, userID string) (*model.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM dbo.[posts] WHERE id=@p1 AND user_id=@p2`, id, userID)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	return p, err
}

func (r *PostRepositoryMSSQL) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+postColumns+` FROM dbo.[posts] WHERE user_id=@p1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostRepositoryMSSQL) ListByStatus(ctx context.Context, userID, status string) ([]*model.Post, error) {
	order := `created_at DESC`
	if status == model.StatusScheduled {
		order = `scheduled_time ASC`
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+postColumns+` FROM dbo.[posts] WHERE user_id=@p1 AND status=@p2 ORDER BY `+order, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostRepositoryMSSQL) ListDue(ctx context.Context, now time.Time, limit int) ([]*model.Post, error) {
	q := `SELECT TOP (@p1) ` + postColumns + ` FROM dbo.[posts] WHERE status=@p2 AND scheduled_time IS NOT NULL AND scheduled_time <= @p3 AND in_flight = 0 ORDER BY scheduled_time ASC`
	rows, err := r.db.QueryContext(ctx, q, limit, model.StatusScheduled, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostRepositoryMSSQL) ClaimForPublish(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[posts] SET in_flight=1, updated_at=@p1 WHERE id=@p2 AND user_id=@p3 AND in_flight=0 AND status <> @p4`,
		time.Now().UTC(), id, userID, model.StatusPosted,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var status string
	var inFlight bool
	row := r.db.QueryRowContext(ctx, `SELECT status, in_flight FROM dbo.[posts] WHERE id=@p1 AND user_id=@p2`, id, userID)
	if err := row.Scan(&status, &inFlight); err != nil {
		if err == sql.ErrNoRows {
			return model.ErrNotFound
		}
		return err
	}
	if status == model.StatusPosted {
		return model.ErrAlreadyPublished
	}
	return model.ErrAlreadyInFlight
}

func (r *PostRepositoryMSSQL) ReleaseClaim(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE dbo.[posts] SET in_flight=0, updated_at=@p1 WHERE id=@p2`, time.Now().UTC(), id)
	return err
}

func (r *PostRepositoryMSSQL) ClearCredentialRefs(ctx context.Context, credentialID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE dbo.[posts] SET credential_id=NULL, updated_at=@p1 WHERE credential_id=@p2`, time.Now().UTC(), credentialID)
	return err
}
