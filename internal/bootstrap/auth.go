package bootstrap

import (
	"fmt"

	"github.com/campuslabs/nominate-gateway/config"
	"github.com/campuslabs/nominate-gateway/internal/adapters/devauth"
	"github.com/campuslabs/nominate-gateway/internal/adapters/oidc"
	"github.com/campuslabs/nominate-gateway/internal/ports"
)

// BuildAuthProvider constructs the provider for the configured login mode.
// SSO mode returns nil: the portal completes logins via the query-parameter
// callback without a provider round trip.
//
//nolint:ireturn // the provider port is the whole point here.
func BuildAuthProvider(cfg config.AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeSSO:
		return nil, nil
	case config.AuthModeOIDC:
		provider, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Scope:        cfg.OIDC.Scope,
			DiscoveryURL: cfg.OIDC.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc provider: %w", err)
		}
		return provider, nil
	case config.AuthModeMock:
		provider, err := devauth.NewProvider(devauth.Config{
			RoleID:          cfg.Mock.RoleID,
			Chairman:        cfg.Mock.Chairman,
			FirstName:       cfg.Mock.FirstName,
			Email:           cfg.Mock.Email,
			SessionDuration: cfg.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("build mock provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
