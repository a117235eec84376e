package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
	"reddit-sync/infrastructure/configuration"
	"reddit-sync/infrastructure/logger"
)

const (
	defaultAuthBase = "https://www.reddit.com"
	defaultAPIBase  = "https://oauth.reddit.com"

	// Hard ceiling on any single Reddit round trip, token refresh included.
	requestTimeout = 30 * time.Second
)

// Factory builds Reddit adapters from the registered OAuth apps. AuthBase and
// APIBase exist so tests can point the factory at an httptest server.
type Factory struct {
	cfg      *configuration.Config
	AuthBase string
	APIBase  string
}

func NewFactory(cfg *configuration.Config) *Factory {
	return &Factory{cfg: cfg, AuthBase: defaultAuthBase, APIBase: defaultAPIBase}
}

// userAgentTransport stamps the Reddit-required User-Agent on every request.
type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.agent)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}

func (f *Factory) httpClient(agent string) *http.Client {
	return &http.Client{
		Timeout:   requestTimeout,
		Transport: &userAgentTransport{agent: agent},
	}
}

func (f *Factory) oauthConfig(app configuration.RedditApp) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
		RedirectURL:  app.RedirectURI,
		Scopes:       f.cfg.Reddit.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL: f.AuthBase + "/api/v1/authorize",
			// Reddit token endpoint authenticates with HTTP basic auth.
			TokenURL:  f.AuthBase + "/api/v1/access_token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// ForCredential builds a publishing session bound to one linked account.
func (f *Factory) ForCredential(cred *model.Credential) (repository.ISocialPublisher, error) {
	app, err := f.cfg.GetRedditApp(cred.AppVariant)
	if err != nil || !app.Configured() {
		return nil, model.ErrAppNotConfigured
	}
	conf := f.oauthConfig(app)
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, f.httpClient(app.UserAgent))
	src := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	return &Publisher{
		http:    &http.Client{Timeout: requestTimeout, Transport: &oauth2.Transport{Source: src, Base: &userAgentTransport{agent: app.UserAgent}}},
		apiBase: f.APIBase,
	}, nil
}

// ForVariant builds the OAuth linking client for an app variant.
func (f *Factory) ForVariant(appVariant string) (repository.ILinkClient, error) {
	app, err := f.cfg.GetRedditApp(appVariant)
	if err != nil || !app.Configured() {
		return nil, model.ErrAppNotConfigured
	}
	return &LinkClient{
		conf:    f.oauthConfig(app),
		http:    f.httpClient(app.UserAgent),
		agent:   app.UserAgent,
		apiBase: f.APIBase,
	}, nil
}

// Publisher is an authenticated Reddit session for one credential.
type Publisher struct {
	http    *http.Client
	apiBase string
}

type meResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p *Publisher) Identify(ctx context.Context) (*repository.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/api/v1/me", nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIdentityFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", model.ErrIdentityFetchFailed, resp.StatusCode)
	}
	var me meResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIdentityFetchFailed, err)
	}
	if me.Name == "" {
		return nil, model.ErrIdentityFetchFailed
	}
	return &repository.Identity{ID: me.ID, Username: me.Name}, nil
}

// submitParams is the form body of POST /api/submit.
type submitParams struct {
	Subreddit string `url:"sr"`
	Kind      string `url:"kind"`
	Title     string `url:"title"`
	Text      string `url:"text,omitempty"`
	APIType   string `url:"api_type"`
	Resubmit  bool   `url:"resubmit"`
}

type submitResponse struct {
	JSON struct {
		Errors [][]string `json:"errors"`
		Data   struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"data"`
	} `json:"json"`
}

func (p *Publisher) Submit(ctx context.Context, subreddit, title, body string) (*repository.Submission, error) {
	vals, err := query.Values(submitParams{
		Subreddit: subreddit,
		Kind:      "self",
		Title:     title,
		Text:      body,
		APIType:   "json",
		Resubmit:  true,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+"/api/submit", strings.NewReader(vals.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("reddit submit: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("reddit submit: decode response: %w", err)
	}
	if len(out.JSON.Errors) > 0 {
		return nil, fmt.Errorf("reddit submit: %s", strings.Join(out.JSON.Errors[0], " "))
	}
	if out.JSON.Data.ID == "" {
		return nil, fmt.Errorf("reddit submit: empty submission id")
	}
	return &repository.Submission{ExternalID: out.JSON.Data.ID, URL: out.JSON.Data.URL}, nil
}

// LinkClient drives the authorization-code flow for one app variant.
type LinkClient struct {
	conf    *oauth2.Config
	http    *http.Client
	agent   string
	apiBase string
}

func (l *LinkClient) AuthCodeURL(state string) string {
	// duration=permanent is what makes Reddit hand back a refresh token.
	return l.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("duration", "permanent"))
}

func (l *LinkClient) Exchange(ctx context.Context, code string) (string, []string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, l.http)
	tok, err := l.conf.Exchange(ctx, code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("reddit code exchange failed")
		return "", nil, fmt.Errorf("%w: %v", model.ErrAuthorizationFailed, err)
	}
	if tok.RefreshToken == "" {
		return "", nil, fmt.Errorf("%w: no refresh token granted", model.ErrAuthorizationFailed)
	}
	var scopes []string
	if raw, ok := tok.Extra("scope").(string); ok && raw != "" {
		scopes = strings.Fields(raw)
	}
	return tok.RefreshToken, scopes, nil
}

func (l *LinkClient) Identify(ctx context.Context, refreshToken string) (*repository.Identity, error) {
	tokCtx := context.WithValue(ctx, oauth2.HTTPClient, l.http)
	src := l.conf.TokenSource(tokCtx, &oauth2.Token{RefreshToken: refreshToken})
	client := &http.Client{Timeout: requestTimeout, Transport: &oauth2.Transport{Source: src, Base: &userAgentTransport{agent: l.agent}}}
	p := &Publisher{http: client, apiBase: l.apiBase}
	return p.Identify(ctx)
}
