package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslabs/nominate-gateway/internal/ports"
)

func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	var issuer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/authorize",
			"token_endpoint":         issuer + "/token",
			"userinfo_endpoint":      issuer + "/userinfo",
			"jwks_uri":               issuer + "/jwks",
		})
	}))
	t.Cleanup(srv.Close)
	issuer = srv.URL
	return srv
}

func testProviderConfig(discoveryURL string) ProviderConfig {
	return ProviderConfig{
		ClientID:     "nominate",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email",
		DiscoveryURL: discoveryURL,
	}
}

func TestNewProviderFromDiscovery(t *testing.T) {
	srv := newDiscoveryServer(t)

	provider, err := NewProvider(testProviderConfig(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/authorize", provider.config.Endpoint.AuthURL)
	assert.Equal(t, srv.URL+"/token", provider.config.Endpoint.TokenURL)
}

func TestNewProviderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProviderConfig)
		errMsg string
	}{
		{"missing client ID", func(c *ProviderConfig) { c.ClientID = "" }, "client ID is required"},
		{"missing client secret", func(c *ProviderConfig) { c.ClientSecret = "" }, "client secret is required"},
		{"missing redirect URL", func(c *ProviderConfig) { c.RedirectURL = "" }, "redirect URL is required"},
		{"missing discovery URL", func(c *ProviderConfig) { c.DiscoveryURL = "" }, "discovery URL is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testProviderConfig("http://example.com")
			tt.mutate(&cfg)
			_, err := NewProvider(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBeginBuildsAuthURLWithNonce(t *testing.T) {
	srv := newDiscoveryServer(t)
	provider, err := NewProvider(testProviderConfig(srv.URL))
	require.NoError(t, err)

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "nominate", q.Get("client_id"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, nonce, q.Get("nonce"))
	assert.Equal(t, "code", q.Get("response_type"))
}

func TestBeginStateAndNonceAreUnique(t *testing.T) {
	srv := newDiscoveryServer(t)
	provider, err := NewProvider(testProviderConfig(srv.URL))
	require.NoError(t, err)

	_, state1, nonce1, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	_, state2, nonce2, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)

	assert.NotEqual(t, state1, state2)
	assert.NotEqual(t, nonce1, nonce2)
}

func TestBeginRequiresRedirectURL(t *testing.T) {
	srv := newDiscoveryServer(t)
	provider, err := NewProvider(testProviderConfig(srv.URL))
	require.NoError(t, err)

	_, _, _, err = provider.Begin(context.Background(), ports.BeginInput{})
	assert.Error(t, err)
}

func TestExchangeRequiresInputs(t *testing.T) {
	srv := newDiscoveryServer(t)
	provider, err := NewProvider(testProviderConfig(srv.URL))
	require.NoError(t, err)

	_, err = provider.Exchange(context.Background(), ports.ExchangeInput{Nonce: "n"})
	assert.Error(t, err, "code is required")

	_, err = provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c"})
	assert.Error(t, err, "nonce is required")
}
