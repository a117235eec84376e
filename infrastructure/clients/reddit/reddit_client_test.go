package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/configuration"
)

func testConfig() *configuration.Config {
	return &configuration.Config{
		Reddit: configuration.Reddit{
			UserAgent: "test-agent/1.0",
			Scopes:    []string{"identity", "submit"},
			Apps: []configuration.RedditApp{
				{
					Key:          "app1",
					DisplayName:  "App One",
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					RedirectURI:  "https://example.com/callback",
					UserAgent:    "test-agent/1.0",
				},
				{Key: "app2", DisplayName: "App Two"}, // registered but not configured
			},
		},
	}
}

func newTestFactory(cfg *configuration.Config, server *httptest.Server) *Factory {
	f := NewFactory(cfg)
	f.AuthBase = server.URL
	f.APIBase = server.URL
	return f
}

func TestFactory_ForCredential_UnconfiguredVariant(t *testing.T) {
	f := NewFactory(testConfig())

	_, err := f.ForCredential(&model.Credential{AppVariant: "app2", RefreshToken: "tok"})
	assert.ErrorIs(t, err, model.ErrAppNotConfigured)

	_, err = f.ForCredential(&model.Credential{AppVariant: "nope", RefreshToken: "tok"})
	assert.ErrorIs(t, err, model.ErrAppNotConfigured)
}

func TestLinkClient_AuthCodeURL(t *testing.T) {
	f := NewFactory(testConfig())
	lc, err := f.ForVariant("app1")
	require.NoError(t, err)

	raw := lc.AuthCodeURL("state-token")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "state-token", q.Get("state"))
	assert.Equal(t, "permanent", q.Get("duration"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Contains(t, q.Get("scope"), "identity")
}

func TestLinkClient_Exchange(t *testing.T) {
	t.Run("returns refresh token and scopes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/access_token", r.URL.Path)
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"acc","token_type":"bearer","refresh_token":"refresh-me","scope":"identity submit","expires_in":3600}`))
		}))
		defer server.Close()

		f := newTestFactory(testConfig(), server)
		lc, err := f.ForVariant("app1")
		require.NoError(t, err)

		refresh, scopes, err := lc.Exchange(context.Background(), "auth-code")
		require.NoError(t, err)
		assert.Equal(t, "refresh-me", refresh)
		assert.Equal(t, []string{"identity", "submit"}, scopes)
	})

	t.Run("missing refresh token fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"acc","token_type":"bearer","expires_in":3600}`))
		}))
		defer server.Close()

		f := newTestFactory(testConfig(), server)
		lc, err := f.ForVariant("app1")
		require.NoError(t, err)

		_, _, err = lc.Exchange(context.Background(), "auth-code")
		assert.ErrorIs(t, err, model.ErrAuthorizationFailed)
	})

	t.Run("denied code fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		f := newTestFactory(testConfig(), server)
		lc, err := f.ForVariant("app1")
		require.NoError(t, err)

		_, _, err = lc.Exchange(context.Background(), "bad-code")
		assert.ErrorIs(t, err, model.ErrAuthorizationFailed)
	})
}

func redditStub(t *testing.T, submitStatus int, submitBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/access_token":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"acc","token_type":"bearer","expires_in":3600}`))
		case "/api/v1/me":
			assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"abc123","name":"testuser"}`))
		case "/api/submit":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "self", r.Form.Get("kind"))
			assert.Equal(t, "json", r.Form.Get("api_type"))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(submitStatus)
			w.Write([]byte(submitBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestPublisher_Identify(t *testing.T) {
	server := redditStub(t, http.StatusOK, `{}`)
	defer server.Close()

	f := newTestFactory(testConfig(), server)
	pub, err := f.ForCredential(&model.Credential{AppVariant: "app1", RefreshToken: "refresh-me"})
	require.NoError(t, err)

	id, err := pub.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", id.ID)
	assert.Equal(t, "testuser", id.Username)
}

func TestPublisher_Submit(t *testing.T) {
	t.Run("successful submission", func(t *testing.T) {
		body := `{"json":{"errors":[],"data":{"id":"xyz789","name":"t3_xyz789","url":"https://reddit.com/r/golang/comments/xyz789/hello/"}}}`
		server := redditStub(t, http.StatusOK, body)
		defer server.Close()

		f := newTestFactory(testConfig(), server)
		pub, err := f.ForCredential(&model.Credential{AppVariant: "app1", RefreshToken: "refresh-me"})
		require.NoError(t, err)

		sub, err := pub.Submit(context.Background(), "golang", "hello", "world")
		require.NoError(t, err)
		assert.Equal(t, "xyz789", sub.ExternalID)
		assert.Equal(t, "https://reddit.com/r/golang/comments/xyz789/hello/", sub.URL)
	})

	t.Run("api-level errors surface", func(t *testing.T) {
		body := `{"json":{"errors":[["SUBREDDIT_NOTALLOWED","not allowed to post there","sr"]],"data":{}}}`
		server := redditStub(t, http.StatusOK, body)
		defer server.Close()

		f := newTestFactory(testConfig(), server)
		pub, err := f.ForCredential(&model.Credential{AppVariant: "app1", RefreshToken: "refresh-me"})
		require.NoError(t, err)

		_, err = pub.Submit(context.Background(), "golang", "hello", "world")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SUBREDDIT_NOTALLOWED")
	})
}
