package persistence

import (
	"context"
	"database/sql"
	"time"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
)

const postColumns = `id, user_id, title, content, subreddit, credential_id, post_now, scheduled_time, status, in_flight, reddit_post_id, reddit_url, error_message, created_at, updated_at`

// PostRepository implements post persistence on PostgreSQL (native sql.DB).
type PostRepository struct{ db *sql.DB }

func NewPostRepository(db *sql.DB) repository.IPost { return &PostRepository{db: db} }

func (r *PostRepository) Create(ctx context.Context, p *model.Post) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	q := `INSERT INTO posts (user_id, title, content, subreddit, credential_id, post_now, scheduled_time, status, in_flight, reddit_post_id, reddit_url, error_message, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		  RETURNING id`
	return r.db.QueryRowContext(ctx, q,
		p.UserID, p.Title, p.Content, p.Subreddit, p.CredentialID, p.PostNow,
		p.ScheduledTime, p.Status, p.InFlight, p.RedditPostID, p.RedditURL,
		p.ErrorMessage, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *PostRepository) Update(ctx context.Context, p *model.Post) error {
	p.UpdatedAt = time.Now().UTC()
	q := `UPDATE posts SET title=$1, content=$2, subreddit=$3, credential_id=$4, post_now=$5, scheduled_time=$6, status=$7, in_flight=$8, reddit_post_id=$9, reddit_url=$10, error_message=$11, updated_at=$12
		  WHERE id=$13 AND user_id=$14`
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

func (r *PostRepository) Delete(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *PostRepository) GetByID(ctx context.Context, id int64, userID string) (*model.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1 AND user_id=$2`, id, userID)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	return p, err
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostRepository) ListByStatus(ctx context.Context, userID, status string) ([]*model.Post, error) {
	// Scheduled posts read soonest-first; everything else newest-first.
	order := `created_at DESC`
	if status == model.StatusScheduled {
		order = `scheduled_time ASC`
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts WHERE user_id=$1 AND status=$2 ORDER BY `+order, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*model.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE status=$1 AND scheduled_time IS NOT NULL AND scheduled_time <= $2 AND in_flight = FALSE ORDER BY scheduled_time ASC LIMIT $3`
	rows, err := r.db.QueryContext(ctx, q, model.StatusScheduled, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ClaimForPublish is the at-most-one-concurrent-publish guard: the
// conditional UPDATE succeeds for exactly one caller.
func (r *PostRepository) ClaimForPublish(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET in_flight=TRUE, updated_at=$1 WHERE id=$2 AND user_id=$3 AND in_flight=FALSE AND status <> $4`,
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
	// Lost the claim; figure out why.
	var status string
	var inFlight bool
	row := r.db.QueryRowContext(ctx, `SELECT status, in_flight FROM posts WHERE id=$1 AND user_id=$2`, id, userID)
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

func (r *PostRepository) ReleaseClaim(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE posts SET in_flight=FALSE, updated_at=$1 WHERE id=$2`, time.Now().UTC(), id)
	return err
}

func (r *PostRepository) ClearCredentialRefs(ctx context.Context, credentialID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE posts SET credential_id=NULL, updated_at=$1 WHERE credential_id=$2`, time.Now().UTC(), credentialID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	p := &model.Post{}
	var credID sql.NullInt64
	var sched sql.NullTime
	var errMsg sql.NullString
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.Subreddit, &credID, &p.PostNow, &sched, &p.Status, &p.InFlight, &p.RedditPostID, &p.RedditURL, &errMsg, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if credID.Valid {
		v := credID.Int64
		p.CredentialID = &v
	}
	if sched.Valid {
		v := sched.Time
		p.ScheduledTime = &v
	}
	if errMsg.Valid {
		v := errMsg.String
		p.ErrorMessage = &v
	}
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]*model.Post, error) {
	var list []*model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
