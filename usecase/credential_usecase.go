package usecase

import (
	"context"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
	"reddit-sync/infrastructure/logger"
)

// ICredentialUsecase manages the user's linked accounts.
type ICredentialUsecase interface {
	List(ctx context.Context, userID string) ([]*model.Credential, error)
	Deactivate(ctx context.Context, userID string, id int64) error

	// Delete removes the credential and nulls the reference on any post that
	// pointed at it. The posts themselves survive.
	Delete(ctx context.Context, userID string, id int64) error

	// Test verifies the stored refresh token still works by fetching the
	// account identity from Reddit.
	Test(ctx context.Context, userID string, id int64) (*repository.Identity, error)
}

type credentialUsecase struct {
	creds   repository.ICredential
	posts   repository.IPost
	factory repository.IPublisherFactory
}

func NewCredentialUsecase(creds repository.ICredential, posts repository.IPost, factory repository.IPublisherFactory) ICredentialUsecase {
	return &credentialUsecase{creds: creds, posts: posts, factory: factory}
}

func (u *credentialUsecase) List(ctx context.Context, userID string) ([]*model.Credential, error) {
	return u.creds.ListByUser(ctx, userID)
}

func (u *credentialUsecase) Deactivate(ctx context.Context, userID string, id int64) error {
	return u.creds.Deactivate(ctx, id, userID)
}

func (u *credentialUsecase) Delete(ctx context.Context, userID string, id int64) error {
	// Ownership check happens inside the repository delete; only then may the
	// post references be cleared.
	if err := u.creds.Delete(ctx, id, userID); err != nil {
		return err
	}
	if err := u.posts.ClearCredentialRefs(ctx, id); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":         err,
			"credential_id": id,
		}).Error("clearing post credential references failed")
		return err
	}
	return nil
}

func (u *credentialUsecase) Test(ctx context.Context, userID string, id int64) (*repository.Identity, error) {
	cred, err := u.creds.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	publisher, err := u.factory.ForCredential(cred)
	if err != nil {
		return nil, err
	}
	return publisher.Identify(ctx)
}
