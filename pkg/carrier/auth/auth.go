// Package auth provides the per-carrier authentication strategies used
// by carrier transports: static API keys, basic auth, and OAuth2
// client-credentials token exchange.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Strategy attaches carrier credentials to an outgoing request.
type Strategy interface {
	Authorize(ctx context.Context, req *http.Request) error
}

// ============================================================================
// Static key
// ============================================================================

// StaticKey attaches a credential verbatim to every request header.
type StaticKey struct {
	Header string
	Key    string
}

// Authorize implements Strategy.
func (s *StaticKey) Authorize(_ context.Context, req *http.Request) error {
	req.Header.Set(s.Header, s.Key)
	return nil
}

// ============================================================================
// Basic auth
// ============================================================================

// Basic attaches a username/password pair to every request.
type Basic struct {
	Username string
	Password string
}

// Authorize implements Strategy.
func (b *Basic) Authorize(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

// ============================================================================
// OAuth2 client credentials
// ============================================================================

// expirySkew is how long before token expiry a refresh is forced, so a
// token never reaches a carrier within moments of expiring.
const expirySkew = 60 * time.Second

// ClientCredentials exchanges a client id/secret for a bearer token at
// a token endpoint and attaches it to subsequent requests. The token is
// cached per strategy instance and refreshed when it approaches expiry.
type ClientCredentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	ExtraHeaders map[string]string // carrier-specific token request headers
	Client       Doer              // defaults to http.DefaultClient

	mu     sync.Mutex
	token  string
	expiry time.Time
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   json.Number `json:"expires_in"` // some carriers send this as a string
}

// Authorize implements Strategy, exchanging credentials on first use or
// when the cached token is within the expiry skew.
func (c *ClientCredentials) Authorize(ctx context.Context, req *http.Request) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *ClientCredentials) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiry.Add(-expirySkew)) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	tokenReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	tokenReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	tokenReq.SetBasicAuth(c.ClientID, c.ClientSecret)
	for name, value := range c.ExtraHeaders {
		tokenReq.Header.Set(name, value)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(tokenReq)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	c.token = tr.AccessToken
	c.expiry = time.Now().Add(24 * time.Hour)
	if secs, err := tr.ExpiresIn.Int64(); err == nil && secs > 0 {
		c.expiry = time.Now().Add(time.Duration(secs) * time.Second)
	}

	return c.token, nil
}
