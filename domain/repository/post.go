package repository

import (
	"context"
	"time"

	"reddit-sync/domain/model"
)

// IPost defines post persistence. All owner-scoped reads return
// model.ErrNotFound when the id exists but belongs to another user.
type IPost interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64, userID string) error
	GetByID(ctx context.Context, id int64, userID string) (*model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Post, error)
	ListByStatus(ctx context.Context, userID, status string) ([]*model.Post, error)

	// ListDue returns scheduled posts whose scheduled_time has passed,
	// oldest first, for the sweep.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*model.Post, error)

	// ClaimForPublish atomically marks a post in-flight. It returns
	// model.ErrAlreadyInFlight when another attempt holds the claim and
	// model.ErrAlreadyPublished when the post is terminal.
	ClaimForPublish(ctx context.Context, id int64, userID string) error

	// ReleaseClaim clears the in-flight flag without touching status. Used
	// when an attempt aborts before reaching the platform.
	ReleaseClaim(ctx context.Context, id int64) error

	// ClearCredentialRefs nulls credential_id on posts referencing a removed
	// credential; the posts themselves are kept.
	ClearCredentialRefs(ctx context.Context, credentialID int64) error
}
