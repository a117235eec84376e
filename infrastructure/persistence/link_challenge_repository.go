package persistence

import (
	"context"
	"database/sql"
	"time"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
)

// LinkChallengeRepository stores OAuth state tokens on PostgreSQL.
type LinkChallengeRepository struct{ db *sql.DB }

func NewLinkChallengeRepository(db *sql.DB) repository.ILinkChallenge {
	return &LinkChallengeRepository{db: db}
}

func (r *LinkChallengeRepository) Create(ctx context.Context, ch *model.LinkChallenge) error {
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO link_challenges (user_id, state, app_variant, created_at) VALUES ($1,$2,$3,$4) RETURNING id`
	return r.db.QueryRowContext(ctx, q, ch.UserID, ch.State, ch.AppVariant, ch.CreatedAt).Scan(&ch.ID)
}

// Consume deletes the row and returns it in one statement, so two concurrent
// callbacks with the same state cannot both succeed.
func (r *LinkChallengeRepository) Consume(ctx context.Context, state string, cutoff time.Time) (*model.LinkChallenge, error) {
	q := `DELETE FROM link_challenges WHERE state=$1 AND created_at >= $2
		  RETURNING id, user_id, state, app_variant, created_at`
	ch := &model.LinkChallenge{}
	err := r.db.QueryRowContext(ctx, q, state, cutoff).
		Scan(&ch.ID, &ch.UserID, &ch.State, &ch.AppVariant, &ch.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrInvalidOrExpiredState
	}
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (r *LinkChallengeRepository) DeleteStale(ctx context.Context, userID string, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM link_challenges WHERE user_id=$1 AND created_at < $2`, userID, cutoff)
	return err
}
