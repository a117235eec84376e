package repository

import (
	"context"
	"time"

	"reddit-sync/domain/model"
)

// ICredential defines linked-account persistence.
type ICredential interface {
	// Upsert creates or updates in place, keyed on
	// (user_id, reddit_username, app_variant), always reactivating.
	Upsert(ctx context.Context, cred *model.Credential) error

	// Get returns model.ErrNotFound for a missing or foreign-owned id and
	// model.ErrCredentialInactive for one that exists but is disabled, so
	// callers can tell the two apart.
	Get(ctx context.Context, id int64, userID string) (*model.Credential, error)

	// ListActive returns the owner's active credentials, newest first
	// (created_at DESC, id DESC — the deterministic tie-break the selection
	// policy relies on).
	ListActive(ctx context.Context, userID string) ([]*model.Credential, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Credential, error)

	Deactivate(ctx context.Context, id int64, userID string) error
	Delete(ctx context.Context, id int64, userID string) error
}

// ILinkChallenge stores OAuth state tokens.
type ILinkChallenge interface {
	Create(ctx context.Context, ch *model.LinkChallenge) error

	// Consume atomically deletes and returns the challenge matching state
	// created after cutoff. At most one concurrent caller wins; everyone
	// else gets model.ErrInvalidOrExpiredState.
	Consume(ctx context.Context, state string, cutoff time.Time) (*model.LinkChallenge, error)

	// DeleteStale garbage-collects the owner's challenges created before
	// cutoff. Called lazily from BeginLink.
	DeleteStale(ctx context.Context, userID string, cutoff time.Time) error
}
