package usecase

import (
	"context"
	"time"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
	"reddit-sync/infrastructure/logger"
)

// adapterTimeout bounds one Reddit submission, token refresh included.
const adapterTimeout = 30 * time.Second

// IPublishEngine runs one publish attempt end to end: claim the post, pick a
// credential, submit, persist the outcome. The outcome is always persisted
// before the call returns.
type IPublishEngine interface {
	Publish(ctx context.Context, postID int64, userID string, credentialOverride *int64) (*model.Post, error)
}

type publishEngine struct {
	posts    repository.IPost
	creds    repository.ICredential
	factory  repository.IPublisherFactory
	audit    repository.IPublishAudit
	notifier IPostNotifier
}

func NewPublishEngine(posts repository.IPost, creds repository.ICredential, factory repository.IPublisherFactory, audit repository.IPublishAudit, notifier IPostNotifier) IPublishEngine {
	return &publishEngine{posts: posts, creds: creds, factory: factory, audit: audit, notifier: notifier}
}

// Publish claims the post, so at most one concurrent attempt per post gets
// past the first step. Losers see ErrAlreadyInFlight or ErrAlreadyPublished.
func (e *publishEngine) Publish(ctx context.Context, postID int64, userID string, credentialOverride *int64) (*model.Post, error) {
	if err := e.posts.ClaimForPublish(ctx, postID, userID); err != nil {
		return nil, err
	}
	post, err := e.posts.GetByID(ctx, postID, userID)
	if err != nil {
		_ = e.posts.ReleaseClaim(ctx, postID)
		return nil, err
	}
	post.InFlight = true

	cred, err := e.selectCredential(ctx, post, credentialOverride)
	if err != nil {
		e.recordFailure(ctx, post, nil, err)
		return post, err
	}

	publisher, err := e.factory.ForCredential(cred)
	if err != nil {
		e.recordFailure(ctx, post, cred, err)
		return post, err
	}

	submitCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	// An authentication failure aborts the attempt without touching the post:
	// the platform was never asked to publish anything.
	if _, err := publisher.Identify(submitCtx); err != nil {
		post.InFlight = false
		_ = e.posts.ReleaseClaim(ctx, post.ID)
		return post, err
	}

	submission, err := publisher.Submit(submitCtx, post.Subreddit, post.Title, post.Content)
	if err != nil {
		e.recordFailure(ctx, post, cred, err)
		return post, err
	}

	post.MarkPosted(submission.ExternalID, submission.URL)
	post.CredentialID = &cred.ID
	if err := e.posts.Update(ctx, post); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"post_id": post.ID,
		}).Error("publish succeeded but persisting the outcome failed")
		return post, err
	}
	e.recordOutcome(ctx, post, cred, "")
	return post, nil
}

// selectCredential resolves the account to post with: an explicit override, the
// post's stored reference, or the owner's most recently linked active account.
func (e *publishEngine) selectCredential(ctx context.Context, post *model.Post, override *int64) (*model.Credential, error) {
	id := override
	if id == nil {
		id = post.CredentialID
	}
	if id != nil {
		return e.creds.Get(ctx, *id, post.UserID)
	}
	active, err := e.creds.ListActive(ctx, post.UserID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, model.ErrNoCredentialAvailable
	}
	return active[0], nil
}

// recordFailure persists the failed state before the engine returns, so the
// caller and every later reader see the same post.
func (e *publishEngine) recordFailure(ctx context.Context, post *model.Post, cred *model.Credential, cause error) {
	post.MarkFailed(cause.Error())
	if err := e.posts.Update(ctx, post); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"post_id": post.ID,
		}).Error("persisting failed publish outcome failed")
	}
	e.recordOutcome(ctx, post, cred, cause.Error())
}

func (e *publishEngine) recordOutcome(ctx context.Context, post *model.Post, cred *model.Credential, errMsg string) {
	var credID int64
	if cred != nil {
		credID = cred.ID
	}
	if e.audit != nil {
		if err := e.audit.Record(ctx, &model.PublishAudit{
			PostID:       post.ID,
			UserID:       post.UserID,
			CredentialID: credID,
			Subreddit:    post.Subreddit,
			Status:       post.Status,
			RedditPostID: post.RedditPostID,
			ErrorMessage: errMsg,
		}); err != nil {
			logger.GetLogger().WithField("error", err).Warn("publish audit write failed")
		}
	}
	if e.notifier != nil {
		e.notifier.NotifyPostStatus(ctx, &model.PostEvent{
			PostID:       post.ID,
			UserID:       post.UserID,
			Subreddit:    post.Subreddit,
			Status:       post.Status,
			RedditPostID: post.RedditPostID,
			RedditURL:    post.RedditURL,
			Error:        post.ErrorMessage,
			OccurredAt:   time.Now().UTC(),
		})
	}
}
