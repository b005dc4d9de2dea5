package auth_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/parcelbridge/parcelbridge/pkg/carrier/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticKey(t *testing.T) {
	strategy := &auth.StaticKey{Header: "AUTH-KEY", Key: "k123"}

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/", nil)
	require.NoError(t, err)

	require.NoError(t, strategy.Authorize(context.Background(), req))
	assert.Equal(t, "k123", req.Header.Get("AUTH-KEY"))
}

func TestBasic(t *testing.T) {
	strategy := &auth.Basic{Username: "apikey", Password: "secret"}

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/", nil)
	require.NoError(t, err)

	require.NoError(t, strategy.Authorize(context.Background(), req))

	user, pass, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "apikey", user)
	assert.Equal(t, "secret", pass)
}

// tokenDoer serves canned token responses and counts exchanges.
type tokenDoer struct {
	exchanges int
	body      string
	status    int
	lastReq   *http.Request
}

func (d *tokenDoer) Do(req *http.Request) (*http.Response, error) {
	d.exchanges++
	d.lastReq = req
	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(d.body)),
	}, nil
}

func TestClientCredentials_Authorize(t *testing.T) {
	doer := &tokenDoer{body: `{"access_token":"tok-1","token_type":"Bearer","expires_in":"3600"}`}
	strategy := &auth.ClientCredentials{
		TokenURL:     "https://api.example.com/oauth/token",
		ClientID:     "id",
		ClientSecret: "secret",
		ExtraHeaders: map[string]string{"x-merchant-id": "id"},
		Client:       doer,
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.example.com/rates", nil)
	require.NoError(t, err)

	require.NoError(t, strategy.Authorize(context.Background(), req))
	assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))

	require.NotNil(t, doer.lastReq)
	user, pass, ok := doer.lastReq.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "id", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "id", doer.lastReq.Header.Get("x-merchant-id"))
}

func TestClientCredentials_CachesToken(t *testing.T) {
	doer := &tokenDoer{body: `{"access_token":"tok-1","expires_in":3600}`}
	strategy := &auth.ClientCredentials{
		TokenURL: "https://api.example.com/oauth/token",
		Client:   doer,
	}

	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, "https://api.example.com/rates", nil)
		require.NoError(t, err)
		require.NoError(t, strategy.Authorize(context.Background(), req))
	}

	assert.Equal(t, 1, doer.exchanges)
}

func TestClientCredentials_RefreshesNearExpiry(t *testing.T) {
	// A token expiring inside the refresh skew must be exchanged again.
	doer := &tokenDoer{body: `{"access_token":"tok-short","expires_in":30}`}
	strategy := &auth.ClientCredentials{
		TokenURL: "https://api.example.com/oauth/token",
		Client:   doer,
	}

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodGet, "https://api.example.com/rates", nil)
		require.NoError(t, err)
		require.NoError(t, strategy.Authorize(context.Background(), req))
	}

	assert.Equal(t, 2, doer.exchanges)
}

func TestClientCredentials_ExchangeFails(t *testing.T) {
	doer := &tokenDoer{status: http.StatusUnauthorized, body: `{"error":"invalid_client"}`}
	strategy := &auth.ClientCredentials{
		TokenURL: "https://api.example.com/oauth/token",
		Client:   doer,
	}

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/rates", nil)
	require.NoError(t, err)

	err = strategy.Authorize(context.Background(), req)
	assert.Error(t, err)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestClientCredentials_NoAccessToken(t *testing.T) {
	doer := &tokenDoer{body: `{}`}
	strategy := &auth.ClientCredentials{
		TokenURL: "https://api.example.com/oauth/token",
		Client:   doer,
	}

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/rates", nil)
	require.NoError(t, err)

	assert.Error(t, strategy.Authorize(context.Background(), req))
}
