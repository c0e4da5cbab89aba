package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
	"github.com/campuslabs/nominate-gateway/internal/service"
)

// fakeSessionService is a hand-rolled test double for SessionServiceInterface.
// Each func field overrides one method; unset methods return zero values.
type fakeSessionService struct {
	ResolveFunc  func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	LoginFunc    func(ctx context.Context, in service.LoginInput) (domainauth.Session, error)
	LogoutFunc   func(ctx context.Context, sessionID string) error
	ConsumeFunc  func(ctx context.Context, token string) (bool, error)
	BeginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteFunc func(ctx context.Context, in service.CompleteLoginInput) (domainauth.Session, error)

	loggedOut []string
	denials   []string
}

var _ SessionServiceInterface = (*fakeSessionService)(nil)

func (f *fakeSessionService) Resolve(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if f.ResolveFunc != nil {
		return f.ResolveFunc(ctx, sessionID)
	}
	return nil, errors.New("resolve not configured")
}

func (f *fakeSessionService) Login(ctx context.Context, in service.LoginInput) (domainauth.Session, error) {
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, in)
	}
	return domainauth.Session{}, errors.New("login not configured")
}

func (f *fakeSessionService) Logout(ctx context.Context, sessionID string) error {
	f.loggedOut = append(f.loggedOut, sessionID)
	if f.LogoutFunc != nil {
		return f.LogoutFunc(ctx, sessionID)
	}
	return nil
}

func (f *fakeSessionService) ConsumeSSOToken(ctx context.Context, token string) (bool, error) {
	if f.ConsumeFunc != nil {
		return f.ConsumeFunc(ctx, token)
	}
	return true, nil
}

func (f *fakeSessionService) RecordDenied(_ context.Context, _ *domainauth.Session, path string) {
	f.denials = append(f.denials, path)
}

func (f *fakeSessionService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.BeginFunc != nil {
		return f.BeginFunc(ctx, redirectURL)
	}
	return nil, errors.New("begin not configured")
}

func (f *fakeSessionService) CompleteLogin(ctx context.Context, in service.CompleteLoginInput) (domainauth.Session, error) {
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, in)
	}
	return domainauth.Session{}, errors.New("complete not configured")
}

func testSession(role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID:         "sess-1",
		Credential: "tok-1",
		Role:       role,
		Identity:   domainauth.Identity{FirstName: "Ada", Email: "ada@example.edu"},
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func testCookie() CookieConfig {
	return CookieConfig{Name: "nominate_session"}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
