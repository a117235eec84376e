package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reddit-sync/domain/dto"
	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
)

type MockPostUsecase struct {
	mock.Mock
}

func (m *MockPostUsecase) Create(ctx context.Context, userID string, req *dto.CreatePostRequest) (*model.Post, error) {
	args := m.Called(ctx, userID, req)
	post, _ := args.Get(0).(*model.Post)
	return post, args.Error(1)
}

func (m *MockPostUsecase) List(ctx context.Context, userID, status string) ([]*model.Post, error) {
	args := m.Called(ctx, userID, status)
	posts, _ := args.Get(0).([]*model.Post)
	return posts, args.Error(1)
}

func (m *MockPostUsecase) Get(ctx context.Context, userID string, id int64) (*model.Post, error) {
	args := m.Called(ctx, userID, id)
	post, _ := args.Get(0).(*model.Post)
	return post, args.Error(1)
}

func (m *MockPostUsecase) Update(ctx context.Context, userID string, id int64, req *dto.UpdatePostRequest) (*model.Post, error) {
	args := m.Called(ctx, userID, id, req)
	post, _ := args.Get(0).(*model.Post)
	return post, args.Error(1)
}

func (m *MockPostUsecase) Delete(ctx context.Context, userID string, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockPostUsecase) Publish(ctx context.Context, userID string, id int64, credentialID *int64) (*model.Post, error) {
	args := m.Called(ctx, userID, id, credentialID)
	post, _ := args.Get(0).(*model.Post)
	return post, args.Error(1)
}

func (m *MockPostUsecase) Schedule(ctx context.Context, userID string, id int64, req *dto.SchedulePostRequest) (*model.Post, error) {
	args := m.Called(ctx, userID, id, req)
	post, _ := args.Get(0).(*model.Post)
	return post, args.Error(1)
}

func (m *MockPostUsecase) ProcessDue(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockLinkUsecase struct {
	mock.Mock
}

func (m *MockLinkUsecase) Apps() []dto.AppInfo {
	args := m.Called()
	apps, _ := args.Get(0).([]dto.AppInfo)
	return apps
}

func (m *MockLinkUsecase) BeginLink(ctx context.Context, userID, appVariant string) (*dto.ConnectResponse, error) {
	args := m.Called(ctx, userID, appVariant)
	resp, _ := args.Get(0).(*dto.ConnectResponse)
	return resp, args.Error(1)
}

func (m *MockLinkUsecase) CompleteLink(ctx context.Context, code, state string) (*model.Credential, error) {
	args := m.Called(ctx, code, state)
	cred, _ := args.Get(0).(*model.Credential)
	return cred, args.Error(1)
}

type MockCredentialUsecase struct {
	mock.Mock
}

func (m *MockCredentialUsecase) List(ctx context.Context, userID string) ([]*model.Credential, error) {
	args := m.Called(ctx, userID)
	creds, _ := args.Get(0).([]*model.Credential)
	return creds, args.Error(1)
}

func (m *MockCredentialUsecase) Deactivate(ctx context.Context, userID string, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCredentialUsecase) Delete(ctx context.Context, userID string, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCredentialUsecase) Test(ctx context.Context, userID string, id int64) (*repository.Identity, error) {
	args := m.Called(ctx, userID, id)
	identity, _ := args.Get(0).(*repository.Identity)
	return identity, args.Error(1)
}
