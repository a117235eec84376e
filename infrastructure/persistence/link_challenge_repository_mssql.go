package persistence

import (
	"context"
	"database/sql"
	"time"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
)

// LinkChallengeRepositoryMSSQL stores OAuth state tokens on SQL Server.
type LinkChallengeRepositoryMSSQL struct{ db *sql.DB }

func NewLinkChallengeRepositoryMSSQL(db *sql.DB) repository.ILinkChallenge {
	return &LinkChallengeRepositoryMSSQL{db: db}
}

func (r *LinkChallengeRepositoryMSSQL) Create(ctx context.Context, ch *model.LinkChallenge) error {
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO dbo.[link_challenges] (user_id, state, app_variant, created_at) OUTPUT INSERTED.id VALUES (@p1,@p2,@p3,@p4)`
	return r.db.QueryRowContext(ctx, q, ch.UserID, ch.State, ch.AppVariant, ch.CreatedAt).Scan(&ch.ID)
}

func (r *LinkChallengeRepositoryMSSQL) Consume(ctx context.Context, state string, cutoff time.Time) (*model.LinkChallenge, error) {
	q := `DELETE FROM dbo.[link_challenges]
OUTPUT DELETED.id, DELETED.user_id, DELETED.state, DELETED.app_variant, DELETED.created_at
WHERE state=@p1 AND created_at >= @p2`
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

func (r *LinkChallengeRepositoryMSSQL) DeleteStale(ctx context.Context, userID string, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[link_challenges] WHERE user_id=@p1 AND created_at < @p2`, userID, cutoff)
	return err
}
