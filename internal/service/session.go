package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
	apperrors "github.com/campuslabs/nominate-gateway/internal/errors"
	"github.com/campuslabs/nominate-gateway/internal/observability/statsd"
	"github.com/campuslabs/nominate-gateway/internal/ports"
	"github.com/campuslabs/nominate-gateway/internal/upstream"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Store      ports.SessionStore
	Upstream   ports.UpstreamAuthAPI
	Provider   ports.AuthProvider // optional; oidc and mock modes only
	Audit      ports.AuditLog     // optional
	Metrics    statsd.Sink        // optional
	Logger     *slog.Logger
	SessionTTL time.Duration
}

// SessionService owns the single source of truth for "who is the current
// user". Sessions enter through Login (interactive or SSO completion) or
// provider exchange, are validated per request by Resolve, and leave through
// Logout or the transport's forced-logout path.
type SessionService struct {
	store      ports.SessionStore
	upstream   ports.UpstreamAuthAPI
	provider   ports.AuthProvider
	audit      ports.AuditLog
	metrics    statsd.Sink
	logger     *slog.Logger
	sessionTTL time.Duration
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{
		store:      opts.Store,
		upstream:   opts.Upstream,
		provider:   opts.Provider,
		audit:      opts.Audit,
		metrics:    opts.Metrics,
		logger:     logger,
		sessionTTL: ttl,
	}
}

// LoginInput groups parameters for establishing a session.
type LoginInput struct {
	// Credential is the opaque bearer token the upstream API issued.
	Credential string
	// RoleHint is the numeric role id delivered alongside the credential
	// (as a string, the way the login redirect carries it). Used when the
	// profile payload does not resolve a role id itself.
	RoleHint string
	// Profile is the raw principal payload, possibly wrapped.
	Profile map[string]any
	// ExpiresAt optionally bounds the session below the configured TTL.
	ExpiresAt time.Time
}

// Login establishes a session from a credential, role hint, and profile
// payload. It performs no upstream call; both the interactive login and the
// SSO completion funnel through here. Calling it again fully replaces state.
func (s *SessionService) Login(ctx context.Context, in LoginInput) (domainauth.Session, error) {
	if in.Credential == "" {
		return domainauth.Session{}, apperrors.Validation("credential is required")
	}

	identity := s.resolveIdentity(in)
	sess := domainauth.Session{
		ID:         uuid.NewString(),
		Credential: in.Credential,
		Role:       identity.Role(),
		Identity:   identity,
		ExpiresAt:  s.sessionExpiry(in.ExpiresAt),
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "save session")
	}

	s.record(ctx, domainauth.AuditEvent{
		Kind:      domainauth.AuditLogin,
		SessionID: sess.ID,
		Role:      sess.Role,
		Email:     identity.Email,
	})
	s.count("session.login", map[string]string{"role": string(sess.Role)})
	return sess, nil
}

// resolveIdentity normalizes the profile payload, falling back to the role
// hint and finally the baseline role when the payload does not carry a role
// id of its own.
func (s *SessionService) resolveIdentity(in LoginInput) domainauth.Identity {
	if identity, ok := domainauth.Normalize(in.Profile); ok {
		return identity
	}

	roleID := domainauth.RoleIDStudent
	chairman := false
	if id, chair, ok := domainauth.ParseRoleHint(in.RoleHint); ok {
		roleID, chairman = id, chair
	}

	// Re-run normalization with the hinted role id injected so the name and
	// email extraction still applies to whatever profile fields exist.
	payload := map[string]any{"role_id": roleID}
	if chairman {
		payload["is_chairman"] = true
	}
	for k, v := range domainauth.Unwrap(in.Profile) {
		if k != "role_id" {
			payload[k] = v
		}
	}
	identity, _ := domainauth.Normalize(payload)
	return identity
}

// Logout tears a session down: best-effort upstream notification (failure
// ignored), then removal of all persisted credential state. Idempotent.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	// Logout must succeed locally even if the upstream is unreachable.
	notifyCtx := upstream.WithSessionID(ctx, sessionID)
	if err := s.upstream.Logout(notifyCtx); err != nil {
		s.logger.WarnContext(ctx, "upstream logout notification failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err))
	}

	if err := s.store.Clear(ctx, sessionID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "clear session")
	}

	s.record(ctx, domainauth.AuditEvent{
		Kind:      domainauth.AuditLogout,
		SessionID: sessionID,
	})
	s.count("session.logout", nil)
	return nil
}

// Resolve validates a session against the upstream "who am I" endpoint and
// returns the refreshed session. Error codes:
//   - unauthenticated: no persisted credential, or the upstream revoked the
//     session (state already wiped), or the upstream was unreachable — the
//     request proceeds logged out and the guard decides.
//   - session_invalid: the upstream principal carries no resolvable role id;
//     the session is torn down before returning.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, apperrors.Unauthenticated("no session")
	}

	cred, err := s.store.Credential(ctx, sessionID)
	if err != nil || cred == "" {
		return nil, apperrors.Unauthenticated("no persisted credential")
	}

	callCtx := upstream.WithSessionID(ctx, sessionID)
	payload, err := s.upstream.Me(callCtx)
	if err != nil {
		if errors.Is(err, upstream.ErrSessionRevoked) {
			// The transport already wiped the persisted state.
			return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "session revoked")
		}
		// Transient upstream failure: stay logged out for this request
		// without clearing anything.
		s.logger.WarnContext(ctx, "session validation failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err))
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "session validation failed")
	}

	identity, ok := domainauth.Normalize(payload)
	if !ok {
		// Credential present but no resolvable role: corrupt state.
		if logoutErr := s.Logout(ctx, sessionID); logoutErr != nil {
			s.logger.ErrorContext(ctx, "logout of invalid session failed",
				slog.String("session_id", sessionID),
				slog.Any("error", logoutErr))
		}
		return nil, apperrors.SessionInvalid("principal has no resolvable role")
	}

	sess := domainauth.Session{
		ID:         sessionID,
		Credential: cred,
		Role:       identity.Role(),
		Identity:   identity,
		ExpiresAt:  s.cachedExpiry(ctx, sessionID),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.WarnContext(ctx, "refreshing cached session failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err))
	}
	return &sess, nil
}

// cachedExpiry keeps the original session deadline across refreshes so
// revalidation does not extend a session's life.
func (s *SessionService) cachedExpiry(ctx context.Context, sessionID string) time.Time {
	if existing, err := s.store.Get(ctx, sessionID); err == nil && !existing.ExpiresAt.IsZero() {
		return existing.ExpiresAt
	}
	return time.Now().Add(s.sessionTTL)
}

func (s *SessionService) sessionExpiry(requested time.Time) time.Time {
	deadline := time.Now().Add(s.sessionTTL)
	if !requested.IsZero() && requested.Before(deadline) {
		return requested
	}
	return deadline
}

// ConsumeSSOToken marks an external-login token as used, returning true
// exactly once per token. The raw token never reaches the store; only its
// digest does.
func (s *SessionService) ConsumeSSOToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, apperrors.Validation("token is required")
	}
	sum := sha256.Sum256([]byte(token))
	first, err := s.store.ConsumeLoginToken(ctx, hex.EncodeToString(sum[:]), 10*time.Minute)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeInternal, "consume login token")
	}
	if !first {
		s.record(ctx, domainauth.AuditEvent{Kind: domainauth.AuditSSOReplay})
		s.count("session.sso_replay", nil)
	}
	return first, nil
}

// ForcedLogoutHook returns the callback the transport invokes after wiping a
// revoked session's state.
func (s *SessionService) ForcedLogoutHook() func(ctx context.Context, sessionID, path string) {
	return func(ctx context.Context, sessionID, path string) {
		s.record(ctx, domainauth.AuditEvent{
			Kind:      domainauth.AuditForcedLogout,
			SessionID: sessionID,
			Path:      path,
		})
		s.count("session.forced_logout", nil)
	}
}

// RecordDenied audits a route-guard denial.
func (s *SessionService) RecordDenied(ctx context.Context, sess *domainauth.Session, path string) {
	event := domainauth.AuditEvent{Kind: domainauth.AuditDenied, Path: path}
	if sess != nil {
		event.SessionID = sess.ID
		event.Role = sess.Role
		event.Email = sess.Identity.Email
	}
	s.record(ctx, event)
	s.count("guard.denied", map[string]string{"role": string(event.Role)})
}

func (s *SessionService) record(ctx context.Context, event domainauth.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit record failed",
			slog.String("kind", string(event.Kind)),
			slog.Any("error", err))
	}
}

func (s *SessionService) count(name string, tags map[string]string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count(name, 1, tags)
}
