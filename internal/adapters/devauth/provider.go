package devauth

// Package devauth provides a config-driven AuthProvider for local
// development. It short-circuits the OAuth flow by redirecting back to our
// own callback with locally generated state and nonce; Exchange ignores the
// code and returns the configured identity.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/campuslabs/nominate-gateway/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	RoleID          int
	Chairman        bool
	FirstName       string
	Email           string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development.
type Provider struct {
	cfg Config
}

var _ ports.AuthProvider = (*Provider)(nil)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	if cfg.RoleID <= 0 {
		return nil, errors.New("dev auth: RoleID is required")
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = 8 * time.Hour
	}
	return &Provider{cfg: cfg}, nil
}

// Begin returns a local callback URL and cryptographically secure state and
// nonce. Our standard handler expects GET /auth/callback?code=...&state=...
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	return "/auth/callback?code=dev&state=" + state, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by the
// handler) and mints a fresh credential for the configured identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (ports.ProviderIdentity, error) {
	credential, err := randomString(40)
	if err != nil {
		return ports.ProviderIdentity{}, fmt.Errorf("generate credential: %w", err)
	}

	return ports.ProviderIdentity{
		Credential: "dev-" + credential,
		Profile: map[string]any{
			"role_id":   p.cfg.RoleID,
			"firstname": p.cfg.FirstName,
			"email":     p.cfg.Email,
			"committee": map[string]any{"is_chairman": p.cfg.Chairman},
		},
		ExpiresAt: time.Now().Add(p.cfg.SessionDuration),
	}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		return "", errors.New("short random read")
	}
	return s[:n], nil
}
