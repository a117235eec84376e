package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
	"reddit-sync/usecase"
)

func pendingPost() *model.Post {
	return &model.Post{
		ID:        1,
		UserID:    "user-1",
		Title:     "hello",
		Content:   "body",
		Subreddit: "golang",
		PostNow:   true,
		Status:    model.StatusPending,
	}
}

func activeCredential() *model.Credential {
	return &model.Credential{
		ID:             10,
		UserID:         "user-1",
		RedditUsername: "alice",
		AppVariant:     "app1",
		RefreshToken:   "tok",
		IsActive:       true,
	}
}

func TestPublishEngine_Publish_Success(t *testing.T) {
	posts := new(MockPostRepository)
	creds := new(MockCredentialRepository)
	factory := new(MockPublisherFactory)
	audit := new(MockPublishAudit)
	notifier := new(MockPostNotifier)
	publisher := new(MockPublisher)

	post := pendingPost()
	cred := activeCredential()

	posts.On("ClaimForPublish", mock.Anything, int64(1), "user-1").Return(nil).Once()
	posts.On("GetByID", mock.Anything, int64(1), "user-1").Return(post, nil).Once()
	creds.On("ListActive", mock.Anything, "user-1").Return([]*model.Credential{cred}, nil).Once()
	factory.On("ForCredential", cred).Return(publisher, nil).Once()
	publisher.On("Identify", mock.Anything).Return(&repository.Identity{ID: "t2_a", Username: "alice"}, nil).Once()
	publisher.On("Submit", mock.Anything, "golang", "hello", "body").
		Return(&repository.Submission{ExternalID: "abc123", URL: "https://reddit.com/r/golang/abc123"}, nil).Once()
	posts.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
		return p.Status == model.StatusPosted && p.RedditPostID == "abc123" && !p.InFlight && p.CredentialID != nil && *p.CredentialID == cred.ID
	})).Return(nil).Once()
	audit.On("Record", mock.Anything, mock.MatchedBy(func(a *model.PublishAudit) bool {
		return a.Status == model.StatusPosted && a.CredentialID == cred.ID
	})).Return(nil).Once()
	notifier.On("NotifyPostStatus", mock.Anything, mock.MatchedBy(func(e *model.PostEvent) bool {
		return e.Status == model.StatusPosted && e.PostID == int64(1)
	})).Once()

	engine := usecase.NewPublishEngine(posts, creds, factory, audit, notifier)
	got, err := engine.Publish(context.Background(), 1, "user-1", nil)

	require.NoError(t, err)
	assert.Equal(t, model.StatusPosted, got.Status)
	assert.Equal(t, "abc123", got.RedditPostID)
	posts.AssertExpectations(t)
	creds.AssertExpectations(t)
	factory.AssertExpectations(t)
	publisher.AssertExpectations(t)
	audit.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestPublishEngine_Publish_NoCredentialAvailable(t *testing.T) {
	posts := new(MockPostRepository)
	creds := new(MockCredentialRepository)
	factory := new(MockPublisherFactory)
	audit := new(MockPublishAudit)
	notifier := new(MockPostNotifier)

	posts.On("ClaimForPublish", mock.Anything, int64(1), "user-1").Return(nil).Once()
	posts.On("GetByID", mock.Anything, int64(1), "user-1").Return(pendingPost(), nil).Once()
	creds.On("ListActive", mock.Anything, "user-1").Return([]*model.Credential{}, nil).Once()
	// The failed outcome is persisted before Publish returns.
	posts.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
		return p.Status == model.StatusFailed && !p.InFlight && p.ErrorMessage != nil
	})).Return(nil).Once()
	audit.On("Record", mock.Anything, mock.Anything).Return(nil).Once()
	notifier.On("NotifyPostStatus", mock.Anything, mock.Anything).Once()

	engine := usecase.NewPublishEngine(posts, creds, factory, audit, notifier)
	got, err := engine.Publish(context.Background(), 1, "user-1", nil)

	assert.ErrorIs(t, err, model.ErrNoCredentialAvailable)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusFailed, got.Status)
	// The platform adapter must never be constructed without a credential.
	factory.AssertNotCalled(t, "ForCredential", mock.Anything)
	posts.AssertExpectations(t)
}

func TestPublishEngine_Publish_ExplicitOverride(t *testing.T) {
	posts := new(MockPostRepository)
	creds := new(MockCredentialRepository)
	factory := new(MockPublisherFactory)
	publisher := new(MockPublisher)

	post := pendingPost()
	stored := int64(7)
	post.CredentialID = &stored
	override := int64(10)
	cred := activeCredential()

	posts.On("ClaimForPublish", mock.Anything, int64(1), "user-1").Return(nil).Once()
	posts.On("GetByID", mock.Anything, int64(1), "user-1").Return(post, nil).Once()
	// The override wins over the stored reference.
	creds.On("Get", mock.Anything, override, "user-1").Return(cred, nil).Once()
	factory.On("ForCredential", cred).Return(publisher, nil).Once()
	publisher.On("Identify", mock.Anything).Return(&repository.Identity{ID: "t2_a", Username: "alice"}, nil).Once()
	publisher.On("Submit", mock.Anything, "golang", "hello", "body").
		Return(&repository.Submission{ExternalID: "x", URL: "u"}, nil).Once()
	posts.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	engine := usecase.NewPublishEngine(posts, creds, factory, nil, nil)
	_, err := engine.Publish(context.Background(), 1, "user-1", &override)

	require.NoError(t, err)
	creds.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything)
	creds.AssertExpectations(t)
}

func TestPublishEngine_Publish_InactiveCredential(t *testing.T) {
	posts := new(MockPostRepository)
	creds := new(MockCredentialRepository)
	factory := new(MockPublisherFactory)

	post := pendingPost()
	stored := int64(7)
	post.CredentialID = &stored

	posts.On("ClaimForPublish", mock.Anything, int64(1), "user-1").Return(nil).Once()
	posts.On("GetByID", mock.Anything, int64(1), "user-1").Return(post, nil).Once()
	creds.On("Get", mock.Anything, stored, "user-1").Return(nil, model.ErrCredentialInactive).Once()
	posts.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
		return p.Status == model.StatusFailed
	})).Return(nil).Once()

	engine := usecase.NewPublishEngine(posts, creds, factory, nil, nil)
	got, err := engine.Publish(context.Background(), 1, "user-1", nil)

	assert.ErrorIs(t, err, model.ErrCredentialInactive)
	assert.Equal(t, model.StatusFailed, got.Status)
	factory.AssertNotCalled(t, "ForCredential", mock.Anything)
}

func TestPublishEngine_Publish_SubmitFails(t *testing.T) {
	posts := new(MockPostRepository)
	creds := new(MockCredentialRepository)
	factory := new(MockPublisherFactory)
	publisher := new(MockPublisher)

	cred := activeCredential()
	posts.On("ClaimForPublish", mock.Anything, int64(1), "user-1").Return(nil).Once()
	posts.On("GetByID", mock.Anything, int64(1), "user-1").Return(pendingPost(), nil).Once()
	creds.On("ListActive", mock.Anything, "user-1").Return([]*model.Credential{cred}, nil).Once()
	factory.On("ForCredential", cred).Return(publisher, nil).Once()
	publisher.On("Identify", mock.Anything).Return(&repository.Identity{ID: "t2_a", Username: "alice"}, nil).Once()
	publisher.On("Submit", mock.Anything, "golang", "hello", "body").
		Return(nil, errors.New("SUBREDDIT_NOTALLOWED")).Once()
	posts.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
		return p.Status == model.StatusFailed && p.ErrorMessage != nil && *p.ErrorMessage == "SUBREDDIT_NOTALLOWED"
	})).Return(nil).Once()

	engine := usecase.NewPublishEngine(posts, creds, factory, nil, nil)
	got, err := engine.Publish(context.Background(), 1, "user-1", nil)

	require.Error(t, err)
	assert.Equal(t, model.StatusFailed, got.Status)
	posts.AssertExpectations(t)
}

func TestPublishEngine_Publish_TerminalAndConcurrent(t *testing.T) {
	t.Run("posted post is terminal", func(t *testing.T) {
		posts := new(MockPostRepository)
		posts.On("ClaimForPublish", mock.Anything, int64(1), "user-1").Return(model.ErrAlreadyPublished).Once()

		engine := usecase.NewPublishEngine(posts, nil, nil, nil, nil)
		_, err := engine.Publish(context.Background(), 1, "user-1", nil)
		assert.ErrorIs(t, err, model.ErrAlreadyPublished)
		posts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("second concurrent attempt loses the claim", func(t *testing.T) {
		posts := new(MockPostRepository)
		posts.On("ClaimForPublish", mock.Anything, int64(1), "user-1").Return(model.ErrAlreadyInFlight).Once()

		engine := usecase.NewPublishEngine(posts, nil, nil, nil, nil)
		_, err := engine.Publish(context.Background(), 1, "user-1", nil)
		assert.ErrorIs(t, err, model.ErrAlreadyInFlight)
	})
}

func TestPublishEngine_Publish_AuthFailureLeavesPostUntouched(t *testing.T) {
	posts := new(MockPostRepository)
	creds := new(MockCredentialRepository)
	factory := new(MockPublisherFactory)
	publisher := new(MockPublisher)

	cred := activeCredential()
	posts.On("ClaimForPublish", mock.Anything, int64(1), "user-1").Return(nil).Once()
	posts.On("GetByID", mock.Anything, int64(1), "user-1").Return(pendingPost(), nil).Once()
	creds.On("ListActive", mock.Anything, "user-1").Return([]*model.Credential{cred}, nil).Once()
	factory.On("ForCredential", cred).Return(publisher, nil).Once()
	publisher.On("Identify", mock.Anything).Return(nil, model.ErrIdentityFetchFailed).Once()
	posts.On("ReleaseClaim", mock.Anything, int64(1)).Return(nil).Once()

	engine := usecase.NewPublishEngine(posts, creds, factory, nil, nil)
	got, err := engine.Publish(context.Background(), 1, "user-1", nil)

	assert.ErrorIs(t, err, model.ErrIdentityFetchFailed)
	// The attempt never reached the platform, so the post keeps its status.
	assert.Equal(t, model.StatusPending, got.Status)
	publisher.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	posts.AssertExpectations(t)
}

func TestPublishEngine_Publish_ReleasesClaimOnLoadFailure(t *testing.T) {
	posts := new(MockPostRepository)

	posts.On("ClaimForPublish", mock.Anything, int64(1), "user-1").Return(nil).Once()
	posts.On("GetByID", mock.Anything, int64(1), "user-1").Return(nil, errors.New("connection reset")).Once()
	posts.On("ReleaseClaim", mock.Anything, int64(1)).Return(nil).Once()

	engine := usecase.NewPublishEngine(posts, nil, nil, nil, nil)
	_, err := engine.Publish(context.Background(), 1, "user-1", nil)

	require.Error(t, err)
	posts.AssertExpectations(t)
}
