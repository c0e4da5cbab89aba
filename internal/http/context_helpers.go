package httpx

import (
	"context"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across
// packages. Centralized here so all handlers/middleware use the same key.
type sessionKey struct{}

// hydratedKey marks a request whose session resolution has completed,
// regardless of outcome. The guard distinguishes "not resolved yet" from
// "resolved to nothing" with it.
type hydratedKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// A nil session still marks the context hydrated.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	ctx = context.WithValue(ctx, hydratedKey{}, true)
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session from context and whether one is
// present.
func SessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// IsHydrated reports whether session resolution ran for this request.
func IsHydrated(ctx context.Context) bool {
	hydrated, ok := ctx.Value(hydratedKey{}).(bool)
	return ok && hydrated
}
