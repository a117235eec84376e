package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"reddit-sync/domain/dto"
	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
	"reddit-sync/infrastructure/configuration"
	"reddit-sync/infrastructure/logger"
)

// ILinkUsecase drives the OAuth account-linking flow: hand out an
// authorization URL bound to a one-time state token, then trade the callback
// for a stored credential.
type ILinkUsecase interface {
	Apps() []dto.AppInfo
	BeginLink(ctx context.Context, userID, appVariant string) (*dto.ConnectResponse, error)
	CompleteLink(ctx context.Context, code, state string) (*model.Credential, error)
}

type linkUsecase struct {
	cfg        *configuration.Config
	challenges repository.ILinkChallenge
	creds      repository.ICredential
	factory    repository.IPublisherFactory
	now        func() time.Time
}

func NewLinkUsecase(cfg *configuration.Config, challenges repository.ILinkChallenge, creds repository.ICredential, factory repository.IPublisherFactory) ILinkUsecase {
	return &linkUsecase{
		cfg:        cfg,
		challenges: challenges,
		creds:      creds,
		factory:    factory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (u *linkUsecase) Apps() []dto.AppInfo {
	apps := make([]dto.AppInfo, 0, len(u.cfg.Reddit.Apps))
	for _, app := range u.cfg.Reddit.Apps {
		apps = append(apps, dto.AppInfo{
			Key:         app.Key,
			DisplayName: app.DisplayName,
			Configured:  app.Configured(),
		})
	}
	return apps
}

func (u *linkUsecase) BeginLink(ctx context.Context, userID, appVariant string) (*dto.ConnectResponse, error) {
	var app configuration.RedditApp
	var err error
	if appVariant == "" {
		app, err = u.cfg.DefaultRedditApp()
	} else {
		app, err = u.cfg.GetRedditApp(appVariant)
	}
	if err != nil || !app.Configured() {
		return nil, model.ErrAppNotConfigured
	}

	client, err := u.factory.ForVariant(app.Key)
	if err != nil {
		return nil, err
	}

	// Lazy garbage collection of the caller's abandoned flows.
	cutoff := u.now().Add(-model.LinkChallengeTTL)
	if err := u.challenges.DeleteStale(ctx, userID, cutoff); err != nil {
		logger.GetLogger().WithField("error", err).Warn("stale link challenge cleanup failed")
	}

	state, err := newStateToken()
	if err != nil {
		return nil, err
	}
	challenge := &model.LinkChallenge{
		UserID:     userID,
		State:      state,
		AppVariant: app.Key,
		CreatedAt:  u.now(),
	}
	if err := u.challenges.Create(ctx, challenge); err != nil {
		return nil, err
	}

	return &dto.ConnectResponse{
		AuthURL:        client.AuthCodeURL(state),
		State:          state,
		AppVariant:     app.Key,
		AppDisplayName: app.DisplayName,
	}, nil
}

// CompleteLink consumes the state token, exchanges the code and stores the
// credential under the identity Reddit reports. The challenge is gone after
// the first attempt, successful or not.
func (u *linkUsecase) CompleteLink(ctx context.Context, code, state string) (*model.Credential, error) {
	cutoff := u.now().Add(-model.LinkChallengeTTL)
	challenge, err := u.challenges.Consume(ctx, state, cutoff)
	if err != nil {
		return nil, err
	}

	client, err := u.factory.ForVariant(challenge.AppVariant)
	if err != nil {
		return nil, err
	}
	refreshToken, scopes, err := client.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	identity, err := client.Identify(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	cred := &model.Credential{
		UserID:         challenge.UserID,
		RedditUsername: identity.Username,
		RedditID:       identity.ID,
		AppVariant:     challenge.AppVariant,
		RefreshToken:   refreshToken,
		Scopes:         strings.Join(scopes, ","),
		IsActive:       true,
	}
	if err := u.creds.Upsert(ctx, cred); err != nil {
		return nil, err
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"user_id":         cred.UserID,
		"reddit_username": cred.RedditUsername,
		"app_variant":     cred.AppVariant,
	}).Info("reddit account linked")
	return cred, nil
}

// newStateToken returns 32 random bytes, URL-safe base64 encoded.
func newStateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
