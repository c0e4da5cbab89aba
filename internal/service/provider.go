package service

import (
	"context"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
	apperrors "github.com/campuslabs/nominate-gateway/internal/errors"
	"github.com/campuslabs/nominate-gateway/internal/ports"
)

// BeginLoginResult carries the outputs of initiating a provider login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin starts an interactive provider flow (oidc or mock mode). The
// SSO completion path does not pass through here.
func (s *SessionService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, apperrors.Internal("no auth provider configured")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "begin provider login")
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for CompleteLogin.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin finishes the provider flow and establishes a session from
// the identity the provider resolved.
func (s *SessionService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (domainauth.Session, error) {
	if s.provider == nil {
		return domainauth.Session{}, apperrors.Internal("no auth provider configured")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  in.Code,
		State: in.State,
		Nonce: in.Nonce,
	})
	if err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "provider exchange")
	}

	return s.Login(ctx, LoginInput{
		Credential: identity.Credential,
		Profile:    identity.Profile,
		ExpiresAt:  identity.ExpiresAt,
	})
}
