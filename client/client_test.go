package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/evolvestats/config"
)

const (
	testBaseURL      = "https://game.test/api"
	testTokenURL     = "https://id.test/oauth/token"
	testInventoryURL = testBaseURL + "/inventory"
)

// newTestClient creates a client whose transport is replaced by httpmock.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Service.BaseURL = testBaseURL + "/"
	cfg.Service.InventoryPath = "/inventory"
	cfg.Auth.Provider = "google"
	cfg.Auth.Providers = map[string]config.ProviderConfig{
		"google": {TokenURL: testTokenURL, ClientID: "test-client", Scopes: []string{"openid"}},
	}

	c := New(cfg)
	httpmock.ActivateNonDefault(c.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func registerTokenResponder(t *testing.T) {
	t.Helper()
	httpmock.RegisterResponder(http.MethodPost, testTokenURL,
		func(req *http.Request) (*http.Response, error) {
			if err := req.ParseForm(); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, ""), nil
			}
			if req.PostForm.Get("grant_type") != "password" ||
				req.PostForm.Get("username") != "ash" ||
				req.PostForm.Get("password") != "pikachu" ||
				req.PostForm.Get("client_id") != "test-client" {
				return httpmock.NewJsonResponse(http.StatusUnauthorized, map[string]string{"error": "invalid_grant"})
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"access_token": "token-123",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		})
}

const inventoryPayload = `{
  "candies": {"16": 130, "1": 60},
  "party": [{"pokemon_id": 16}, {"pokemon_id": 16}, {"pokemon_id": 1}],
  "pokedex": {"16": {"times_captured": 12}, "2": {"times_captured": 0}}
}`

func TestAuthenticateAndFetchInventory(t *testing.T) {
	c := newTestClient(t)
	registerTokenResponder(t)

	httpmock.RegisterResponder(http.MethodGet, testInventoryURL,
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "Bearer token-123" {
				return httpmock.NewStringResponse(http.StatusUnauthorized, ""), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, inventoryPayload), nil
		})

	session, err := c.Authenticate(context.Background(), "ash", "pikachu", "Google")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "ash", session.Username)
	assert.False(t, session.Expiry().IsZero())

	inv, err := session.Inventory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, inv.Owned(16))
	assert.Equal(t, 1, inv.Owned(1))
	assert.Equal(t, 130, inv.Candies(16))
	assert.Equal(t, 60, inv.Candies(1))
	assert.True(t, inv.Captured(16))
	assert.False(t, inv.Captured(2))
	assert.False(t, inv.Captured(1))

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+testTokenURL])
	assert.Equal(t, 1, info["GET "+testInventoryURL])
}

func TestAuthenticateDefaultProvider(t *testing.T) {
	c := newTestClient(t)
	registerTokenResponder(t)

	session, err := c.Authenticate(context.Background(), "ash", "pikachu", "")
	require.NoError(t, err)
	assert.Equal(t, "google", session.Provider)
}

func TestAuthenticateRejected(t *testing.T) {
	c := newTestClient(t)
	registerTokenResponder(t)

	session, err := c.Authenticate(context.Background(), "ash", "wrong", "google")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Nil(t, session)
}

func TestAuthenticateMissingAccessToken(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, testTokenURL,
		httpmock.NewStringResponder(http.StatusOK, `{"token_type": "Bearer"}`))

	session, err := c.Authenticate(context.Background(), "ash", "pikachu", "google")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Nil(t, session)
}

func TestAuthenticateMissingCredentials(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"no_username", "", "pikachu"},
		{"no_password", "ash", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := c.Authenticate(context.Background(), tt.username, tt.password, "google")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAuthentication)
			assert.Nil(t, session)
		})
	}

	assert.Zero(t, httpmock.GetTotalCallCount(), "no request should be sent without credentials")
}

func TestAuthenticateUnknownProvider(t *testing.T) {
	c := newTestClient(t)

	session, err := c.Authenticate(context.Background(), "ash", "pikachu", "myspace")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthentication)
	assert.Contains(t, err.Error(), "unknown auth provider")
	assert.Nil(t, session)
}

func TestInventoryHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"not_found", http.StatusNotFound},
		{"internal_server_error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)
			registerTokenResponder(t)
			httpmock.RegisterResponder(http.MethodGet, testInventoryURL,
				httpmock.NewStringResponder(tt.statusCode, `{"error": "nope"}`))

			session, err := c.Authenticate(context.Background(), "ash", "pikachu", "google")
			require.NoError(t, err)

			inv, err := session.Inventory(context.Background())
			require.Error(t, err)
			assert.Nil(t, inv)
			assert.Contains(t, err.Error(), "unexpected status")
		})
	}
}

func TestInventoryInvalidJSON(t *testing.T) {
	c := newTestClient(t)
	registerTokenResponder(t)
	httpmock.RegisterResponder(http.MethodGet, testInventoryURL,
		httpmock.NewStringResponder(http.StatusOK, `{invalid json`))

	session, err := c.Authenticate(context.Background(), "ash", "pikachu", "google")
	require.NoError(t, err)

	inv, err := session.Inventory(context.Background())
	require.Error(t, err)
	assert.Nil(t, inv)
}
