package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the login mode for the gateway.
type AuthMode string

const (
	// AuthModeSSO completes the university portal's redirect login, which
	// delivers the session via query parameters on the callback route.
	AuthModeSSO AuthMode = "sso"
	// AuthModeOIDC uses a standard OIDC authorization-code flow against the
	// university identity provider.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses a config-driven local identity (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "sso", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: sso, oidc, mock)", v)
	}
}

// OIDCConfig contains OIDC configuration (used when Mode=oidc).
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"nominate"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// MockAuthConfig controls the local development identity.
// Used when AUTH_MODE=mock.
type MockAuthConfig struct {
	RoleID    int    `env:"ROLE_ID"    envDefault:"1"`
	FirstName string `env:"FIRST_NAME" envDefault:"Dev"`
	Email     string `env:"EMAIL"      envDefault:"dev@example.edu"`
	Chairman  bool   `env:"CHAIRMAN"   envDefault:"false"`
}

// AuthConfig groups session and login configuration.
type AuthConfig struct {
	// Mode determines how sessions are established.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"sso"`

	// SessionCookie is the name of the session cookie.
	SessionCookie string `env:"SESSION_COOKIE" envDefault:"nominate_session"`

	// SessionTTL bounds how long a session and its cookie live.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// Mock configuration (used when Mode=mock).
	Mock MockAuthConfig `envPrefix:"MOCK_AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.SessionCookie = strings.TrimSpace(a.SessionCookie)
	if a.SessionCookie == "" {
		a.SessionCookie = "nominate_session"
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 24 * time.Hour
	}
}
