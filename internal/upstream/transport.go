package upstream

// Package upstream provides the single shared HTTP client used for all
// calls to the nomination API: an outbound decorator that attaches the
// session's bearer credential, and an inbound decorator that applies the
// selective forced-logout policy on 401 responses.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// ErrSessionRevoked is surfaced when a non-allow-listed upstream call
// returned 401 and the session's persisted credential state has been wiped.
// The HTTP layer converts it into a redirect to the application root.
var ErrSessionRevoked = errors.New("upstream session revoked")

// sessionIDKey is an unexported context key type to avoid collisions.
type sessionIDKey struct{}

// WithSessionID returns a child context carrying the session ID the
// transport uses to look up the bearer credential.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFromContext returns the session ID carried by ctx, if any.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok && id != ""
}

// CredentialSource resolves the bearer credential for a session.
type CredentialSource interface {
	Credential(ctx context.Context, id string) (string, error)
}

// SessionRevoker wipes a session's persisted credential state.
type SessionRevoker interface {
	Clear(ctx context.Context, id string) error
}

// TransportOptions groups dependencies for the interceptor chain.
type TransportOptions struct {
	// Base is the underlying RoundTripper; http.DefaultTransport when nil.
	Base http.RoundTripper

	// Credentials supplies the bearer credential per session.
	Credentials CredentialSource

	// Revoker clears persisted session state on a fatal 401.
	Revoker SessionRevoker

	// PassthroughPrefixes lists request path prefixes whose 401 responses
	// are returned to the caller untouched instead of revoking the session.
	PassthroughPrefixes []string

	// OnForcedLogout, when set, is invoked after a session has been revoked.
	OnForcedLogout func(ctx context.Context, sessionID, path string)

	Logger *slog.Logger
}

// NewTransport builds the interceptor chain: credential attachment on the
// way out, the 401 policy on the way back. The chain never retries.
func NewTransport(opts TransportOptions) http.RoundTripper {
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var rt http.RoundTripper = &bearerTransport{
		next:        base,
		credentials: opts.Credentials,
		logger:      logger,
	}
	return &policyTransport{
		next:           rt,
		revoker:        opts.Revoker,
		passthrough:    opts.PassthroughPrefixes,
		onForcedLogout: opts.OnForcedLogout,
		logger:         logger,
	}
}

// bearerTransport attaches the session's bearer credential to every
// outbound request. Requests without a resolvable credential pass through
// unmodified.
type bearerTransport struct {
	next        http.RoundTripper
	credentials CredentialSource
	logger      *slog.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	id, ok := SessionIDFromContext(ctx)
	if !ok || t.credentials == nil {
		return t.next.RoundTrip(req)
	}

	cred, err := t.credentials.Credential(ctx, id)
	if err != nil || cred == "" {
		// Unauthenticated requests pass through unmodified.
		return t.next.RoundTrip(req)
	}

	// Per RoundTripper contract, never mutate the caller's request.
	clone := req.Clone(ctx)
	clone.Header.Set("Authorization", "Bearer "+cred)
	return t.next.RoundTrip(clone)
}

// policyTransport applies the selective forced-logout policy: a 401 on an
// allow-listed path is an expected, recoverable condition and is returned
// unchanged; a 401 anywhere else invalidates the session.
type policyTransport struct {
	next           http.RoundTripper
	revoker        SessionRevoker
	passthrough    []string
	onForcedLogout func(ctx context.Context, sessionID, path string)
	logger         *slog.Logger
}

func (t *policyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	path := req.URL.Path
	if t.isPassthrough(path) {
		// The caller's local error handling decides what to show.
		return resp, nil
	}

	ctx := req.Context()
	id, ok := SessionIDFromContext(ctx)
	if ok && t.revoker != nil {
		if clearErr := t.revoker.Clear(ctx, id); clearErr != nil {
			t.logger.ErrorContext(ctx, "forced logout: clearing session state failed",
				slog.String("session_id", id),
				slog.Any("error", clearErr))
		}
		if t.onForcedLogout != nil {
			t.onForcedLogout(ctx, id, path)
		}
	}
	t.logger.WarnContext(ctx, "upstream 401 revoked session",
		slog.String("path", path))

	closeBody(resp)
	return nil, ErrSessionRevoked
}

func (t *policyTransport) isPassthrough(path string) bool {
	for _, prefix := range t.passthrough {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
