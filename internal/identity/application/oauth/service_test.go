package oauth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/rendezvous/internal/identity/application/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type memoryStore struct {
	token *oauth2.Token
	saves int
	err   error
}

func (s *memoryStore) Load(context.Context) (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.token == nil {
		return nil, oauth.ErrTokenNotFound
	}
	return s.token, nil
}

func (s *memoryStore) Save(_ context.Context, token *oauth2.Token) error {
	s.token = token
	s.saves++
	return nil
}

func newTokenServer(t *testing.T, accessTokens ...string) *httptest.Server {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		n := int(calls.Add(1)) - 1
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessTokens[min(n, len(accessTokens)-1)],
			"refresh_token": "refresh-token",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func newConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://auth.example.com/authorize",
			TokenURL: tokenURL,
		},
		RedirectURL: "http://localhost",
		Scopes:      oauth.PurposeCalendar.Scopes(),
	}
}

func TestExchangeAndStore(t *testing.T) {
	server := newTokenServer(t, "access-token")
	store := &memoryStore{}
	service, err := oauth.NewService(oauth.PurposeCalendar, newConfig(server.URL), store, nil)
	require.NoError(t, err)

	token, err := service.ExchangeAndStore(context.Background(), " code ")
	require.NoError(t, err)
	assert.Equal(t, "access-token", token.AccessToken)
	require.NotNil(t, store.token)
	assert.Equal(t, "refresh-token", store.token.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), store.token.Expiry, 5*time.Second)
}

func TestAuthURL(t *testing.T) {
	service, err := oauth.NewService(oauth.PurposeGmail, newConfig("http://auth.example.com/token"), &memoryStore{}, nil)
	require.NoError(t, err)

	authURL := service.AuthURL("test-state")
	assert.Contains(t, authURL, "http://auth.example.com/authorize")
	assert.Contains(t, authURL, "client_id=client-id")
	assert.Contains(t, authURL, "state=test-state")
	assert.Contains(t, authURL, "access_type=offline")
	assert.Contains(t, authURL, "prompt=consent")
}

func TestTokenSource(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token is reused without saving", func(t *testing.T) {
		store := &memoryStore{token: &oauth2.Token{AccessToken: "cached", Expiry: time.Now().Add(time.Hour)}}
		service, err := oauth.NewService(oauth.PurposeCalendar, newConfig("http://unused"), store, nil)
		require.NoError(t, err)

		source, err := service.TokenSource(ctx)
		require.NoError(t, err)
		token, err := source.Token()
		require.NoError(t, err)
		assert.Equal(t, "cached", token.AccessToken)
		assert.Zero(t, store.saves)
	})

	t.Run("refreshed token is written back", func(t *testing.T) {
		server := newTokenServer(t, "fresh")
		store := &memoryStore{token: &oauth2.Token{
			AccessToken:  "stale",
			RefreshToken: "refresh-token",
			Expiry:       time.Now().Add(-time.Hour),
		}}
		service, err := oauth.NewService(oauth.PurposeCalendar, newConfig(server.URL), store, nil)
		require.NoError(t, err)

		source, err := service.TokenSource(ctx)
		require.NoError(t, err)
		token, err := source.Token()
		require.NoError(t, err)
		assert.Equal(t, "fresh", token.AccessToken)
		assert.Equal(t, 1, store.saves)
		assert.Equal(t, "fresh", store.token.AccessToken)

		_, err = source.Token()
		require.NoError(t, err)
		assert.Equal(t, 1, store.saves)
	})

	t.Run("missing token", func(t *testing.T) {
		service, err := oauth.NewService(oauth.PurposeGmail, newConfig("http://unused"), &memoryStore{}, nil)
		require.NoError(t, err)

		_, err = service.TokenSource(ctx)
		assert.ErrorIs(t, err, oauth.ErrNotAuthorized)
	})

	t.Run("expired without refresh token", func(t *testing.T) {
		store := &memoryStore{token: &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Minute)}}
		service, err := oauth.NewService(oauth.PurposeGmail, newConfig("http://unused"), store, nil)
		require.NoError(t, err)

		_, err = service.TokenSource(ctx)
		assert.ErrorIs(t, err, oauth.ErrNotAuthorized)
	})

	t.Run("store error", func(t *testing.T) {
		store := &memoryStore{err: context.DeadlineExceeded}
		service, err := oauth.NewService(oauth.PurposeCalendar, newConfig("http://unused"), store, nil)
		require.NoError(t, err)

		_, err = service.TokenSource(ctx)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestNewServiceFromSecrets(t *testing.T) {
	secrets := []byte(`{"installed":{"client_id":"cid","client_secret":"cs","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`)

	service, err := oauth.NewServiceFromSecrets(oauth.PurposeCalendar, secrets, &memoryStore{}, nil)
	require.NoError(t, err)
	assert.Equal(t, oauth.PurposeCalendar, service.Purpose())
	assert.Contains(t, service.AuthURL("s"), "client_id=cid")

	_, err = oauth.NewServiceFromSecrets(oauth.PurposeCalendar, []byte("{}"), &memoryStore{}, nil)
	assert.Error(t, err)
}

func TestNewService_Validation(t *testing.T) {
	_, err := oauth.NewService(oauth.PurposeCalendar, nil, &memoryStore{}, nil)
	assert.Error(t, err)

	_, err = oauth.NewService(oauth.PurposeCalendar, newConfig("http://unused"), nil, nil)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	registry := oauth.NewRegistry()
	assert.Nil(t, registry.Get(oauth.PurposeCalendar))
	assert.Empty(t, registry.Purposes())

	gmail, err := oauth.NewService(oauth.PurposeGmail, newConfig("http://unused"), &memoryStore{}, nil)
	require.NoError(t, err)
	cal, err := oauth.NewService(oauth.PurposeCalendar, newConfig("http://unused"), &memoryStore{}, nil)
	require.NoError(t, err)
	registry.Register(gmail)
	registry.Register(cal)

	assert.Same(t, cal, registry.Get(oauth.PurposeCalendar))
	assert.Equal(t, []oauth.Purpose{oauth.PurposeCalendar, oauth.PurposeGmail}, registry.Purposes())
}

func TestPurposeScopes(t *testing.T) {
	assert.Equal(t, []string{
		"https://www.googleapis.com/auth/calendar.events",
		"https://www.googleapis.com/auth/calendar.readonly",
	}, oauth.PurposeCalendar.Scopes())
	assert.Equal(t, []string{"https://www.googleapis.com/auth/gmail.send"}, oauth.PurposeGmail.Scopes())
	assert.Nil(t, oauth.Purpose("other").Scopes())
}
