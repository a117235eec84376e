package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
)

// Mock implementations

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id int64, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64, userID string) (*model.Post, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) ListByStatus(ctx context.Context, userID, status string) ([]*model.Post, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*model.Post, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) ClaimForPublish(ctx context.Context, id int64, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockPostRepository) ReleaseClaim(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ClearCredentialRefs(ctx context.Context, credentialID int64) error {
	args := m.Called(ctx, credentialID)
	return args.Error(0)
}

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Upsert(ctx context.Context, cred *model.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) Get(ctx context.Context, id int64, userID string) (*model.Credential, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Credential), args.Error(1)
}

func (m *MockCredentialRepository) ListActive(ctx context.Context, userID string) ([]*model.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Credential), args.Error(1)
}

func (m *MockCredentialRepository) ListByUser(ctx context.Context, userID string) ([]*model.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Deactivate(ctx context.Context, id int64, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockCredentialRepository) Delete(ctx context.Context, id int64, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockLinkChallengeRepository struct {
	mock.Mock
}

func (m *MockLinkChallengeRepository) Create(ctx context.Context, ch *model.LinkChallenge) error {
	args := m.Called(ctx, ch)
	return args.Error(0)
}

func (m *MockLinkChallengeRepository) Consume(ctx context.Context, state string, cutoff time.Time) (*model.LinkChallenge, error) {
	args := m.Called(ctx, state, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LinkChallenge), args.Error(1)
}

func (m *MockLinkChallengeRepository) DeleteStale(ctx context.Context, userID string, cutoff time.Time) error {
	args := m.Called(ctx, userID, cutoff)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Identify(ctx context.Context) (*repository.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Identity), args.Error(1)
}

func (m *MockPublisher) Submit(ctx context.Context, subreddit, title, body string) (*repository.Submission, error) {
	args := m.Called(ctx, subreddit, title, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Submission), args.Error(1)
}

type MockLinkClient struct {
	mock.Mock
}

func (m *MockLinkClient) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockLinkClient) Exchange(ctx context.Context, code string) (string, []string, error) {
	args := m.Called(ctx, code)
	var scopes []string
	if args.Get(1) != nil {
		scopes = args.Get(1).([]string)
	}
	return args.String(0), scopes, args.Error(2)
}

func (m *MockLinkClient) Identify(ctx context.Context, refreshToken string) (*repository.Identity, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Identity), args.Error(1)
}

type MockPublisherFactory struct {
	mock.Mock
}

func (m *MockPublisherFactory) ForCredential(cred *model.Credential) (repository.ISocialPublisher, error) {
	args := m.Called(cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.ISocialPublisher), args.Error(1)
}

func (m *MockPublisherFactory) ForVariant(appVariant string) (repository.ILinkClient, error) {
	args := m.Called(appVariant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.ILinkClient), args.Error(1)
}

type MockPublishAudit struct {
	mock.Mock
}

func (m *MockPublishAudit) Record(ctx context.Context, audit *model.PublishAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

type MockPostNotifier struct {
	mock.Mock
}

func (m *MockPostNotifier) NotifyPostStatus(ctx context.Context, event *model.PostEvent) {
	m.Called(ctx, event)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetById(ctx context.Context, id int) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	args := m.Called(ctx, userName)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockPublishEngine struct {
	mock.Mock
}

func (m *MockPublishEngine) Publish(ctx context.Context, postID int64, userID string, credentialOverride *int64) (*model.Post, error) {
	args := m.Called(ctx, postID, userID, credentialOverride)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}
