package repository

import (
	"context"

	"reddit-sync/domain/model"
)

// Identity is the platform-side identity behind a credential.
type Identity struct {
	ID       string
	Username string
}

// Submission is the platform's receipt for a published post.
type Submission struct {
	ExternalID string
	URL        string
}

// ISocialPublisher is the publication client adapter: one authenticated
// session against the platform, bound to a single credential.
type ISocialPublisher interface {
	Identify(ctx context.Context) (*Identity, error)
	Submit(ctx context.Context, subreddit, title, body string) (*Submission, error)
}

// ILinkClient drives the OAuth authorization-code flow for one app variant.
type ILinkClient interface {
	AuthCodeURL(state string) string
	// Exchange trades the authorization code for a refresh token and the
	// granted scopes.
	Exchange(ctx context.Context, code string) (refreshToken string, scopes []string, err error)
	Identify(ctx context.Context, refreshToken string) (*Identity, error)
}

// IPublisherFactory builds adapters. Construction fails with
// model.ErrAppNotConfigured when the app variant lacks registration fields.
type IPublisherFactory interface {
	ForCredential(cred *model.Credential) (ISocialPublisher, error)
	ForVariant(appVariant string) (ILinkClient, error)
}
