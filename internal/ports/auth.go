package ports

// Package ports defines interfaces (hexagonal ports) for session-related
// behavior. Implementations live in internal/adapters and internal/upstream;
// orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
)

// SessionStore persists sessions and their credential keys. The credential
// is stored redundantly under a primary key and read through a legacy
// fallback key for sessions written by earlier deployments; Clear removes
// the session record and both credential keys in one step, so partial state
// (one present, the other absent) cannot occur.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Credential(ctx context.Context, id string) (string, error)
	Clear(ctx context.Context, id string) error

	// ConsumeLoginToken marks an external-login token as used. It returns
	// true exactly once per token digest; replays return false.
	ConsumeLoginToken(ctx context.Context, digest string, ttl time.Duration) (bool, error)
}

// UpstreamAuthAPI is the slice of the upstream nomination API the session
// subsystem consumes: "who am I" and best-effort logout.
type UpstreamAuthAPI interface {
	// Me returns the raw principal payload for the session carried by ctx.
	Me(ctx context.Context) (map[string]any, error)

	// Logout notifies the upstream that the session ended. Failures are the
	// caller's to ignore; local logout must succeed regardless.
	Logout(ctx context.Context) error
}

// ProviderIdentity is the principal an auth provider (OIDC or mock)
// resolves during an interactive login.
type ProviderIdentity struct {
	Credential string
	Profile    map[string]any
	ExpiresAt  time.Time
}

// BeginInput carries inputs for initiating a provider login flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an interactive login flow against an
// identity provider. The SSO query-parameter completion path does not use a
// provider; this port serves the oidc and mock modes.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce.
	Exchange(ctx context.Context, in ExchangeInput) (ProviderIdentity, error)
}

// AuditLog records session lifecycle events for diagnostics.
type AuditLog interface {
	Record(ctx context.Context, event domainauth.AuditEvent) error
}
