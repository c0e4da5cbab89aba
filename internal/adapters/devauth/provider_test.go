package devauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
	"github.com/campuslabs/nominate-gateway/internal/ports"
)

func TestNewProviderValidation(t *testing.T) {
	_, err := NewProvider(Config{RoleID: 3})
	assert.Error(t, err, "email is required")

	_, err = NewProvider(Config{Email: "dev@example.edu"})
	assert.Error(t, err, "role id is required")
}

func TestBeginReturnsLocalCallback(t *testing.T) {
	p, err := NewProvider(Config{RoleID: 3, Email: "dev@example.edu"})
	require.NoError(t, err)

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.Contains(t, authURL, "/auth/callback?code=dev&state="+state)
	assert.Len(t, state, 24)
	assert.Len(t, nonce, 24)
}

func TestExchangeProfileNormalizes(t *testing.T) {
	p, err := NewProvider(Config{
		RoleID:    7,
		Chairman:  true,
		FirstName: "Dev",
		Email:     "dev@example.edu",
	})
	require.NoError(t, err)

	identity, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "dev"})
	require.NoError(t, err)

	assert.NotEmpty(t, identity.Credential)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), identity.ExpiresAt, time.Minute)

	normalized, ok := domainauth.Normalize(identity.Profile)
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleNominationChairman, normalized.Role())
	assert.Equal(t, "Dev", normalized.FirstName)
}

func TestExchangeMintsFreshCredentials(t *testing.T) {
	p, err := NewProvider(Config{RoleID: 1, Email: "dev@example.edu"})
	require.NoError(t, err)

	first, err := p.Exchange(context.Background(), ports.ExchangeInput{})
	require.NoError(t, err)
	second, err := p.Exchange(context.Background(), ports.ExchangeInput{})
	require.NoError(t, err)
	assert.NotEqual(t, first.Credential, second.Credential)
}
