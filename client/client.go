// Package client talks to the game service: it signs a player in through
// an OAuth2 identity provider and fetches the inventory of the session.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/pthm-cable/evolvestats/config"
	"github.com/pthm-cable/evolvestats/inventory"
)

// ErrAuthentication is returned when no session could be created.
var ErrAuthentication = errors.New("authentication failed")

// maxInventoryBytes bounds the inventory payload read from the service.
const maxInventoryBytes = 16 << 20

// Client creates sessions against the configured service.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for the service described by cfg.
func New(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Derived.Timeout,
		},
		logger: slog.Default().With("component", "client"),
	}
}

// HTTPClient returns the underlying HTTP client used for every request,
// including token exchange.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Session is an authenticated connection to the service.
type Session struct {
	Username string
	Provider string

	token        *oauth2.Token
	httpClient   *http.Client
	inventoryURL string
	timeout      time.Duration
	logger       *slog.Logger
}

// Authenticate exchanges the player's credentials for a session using the
// named provider's password grant. Any failure to obtain a token is
// reported as ErrAuthentication.
func (c *Client) Authenticate(ctx context.Context, username, password, provider string) (*Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrAuthentication)
	}
	if provider == "" {
		provider = c.cfg.Auth.Provider
	}
	p, err := c.cfg.Provider(provider)
	if err != nil {
		return nil, err
	}

	oc := &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		Scopes:       p.Scopes,
		Endpoint: oauth2.Endpoint{
			TokenURL:  p.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// Token exchange and later requests share our transport
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	c.logger.Debug("requesting token", "provider", provider, "username", username)
	start := time.Now()
	tok, err := oc.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		c.logger.Debug("token request failed", "provider", provider, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	c.logger.Info("session created",
		"provider", provider,
		"username", username,
		"duration_ms", time.Since(start).Milliseconds())

	return &Session{
		Username:     username,
		Provider:     provider,
		token:        tok,
		httpClient:   oc.Client(ctx, tok),
		inventoryURL: strings.TrimRight(c.cfg.Service.BaseURL, "/") + c.cfg.Service.InventoryPath,
		timeout:      c.cfg.Derived.Timeout,
		logger:       c.logger.With("username", username),
	}, nil
}

// Inventory fetches the player's current inventory.
func (s *Session) Inventory(ctx context.Context) (*inventory.Snapshot, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.inventoryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create inventory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch inventory: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxInventoryBytes))
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	inv, err := inventory.Decode(data)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("inventory fetched", "bytes", len(data), "party", inv.PartySize())
	return inv, nil
}

// Expiry returns when the session token expires; zero means no expiry.
func (s *Session) Expiry() time.Time {
	if s == nil || s.token == nil {
		return time.Time{}
	}
	return s.token.Expiry
}
