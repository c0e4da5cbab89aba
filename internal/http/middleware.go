package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
	apperrors "github.com/campuslabs/nominate-gateway/internal/errors"
	"github.com/campuslabs/nominate-gateway/internal/service"
	"github.com/campuslabs/nominate-gateway/internal/upstream"
)

// SessionServiceInterface is the slice of the session service the HTTP layer
// consumes.
type SessionServiceInterface interface {
	Login(ctx context.Context, in service.LoginInput) (domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Resolve(ctx context.Context, sessionID string) (*domainauth.Session, error)
	ConsumeSSOToken(ctx context.Context, token string) (bool, error)
	RecordDenied(ctx context.Context, sess *domainauth.Session, path string)
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, in service.CompleteLoginInput) (domainauth.Session, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WithSession returns a middleware that hydrates the request with its session
// by validating the cookie-addressed credential against the upstream. The SSO
// completion route is skipped: it establishes its own session, and hydrating
// first would race the one-time token consumption.
//
// Outcomes:
//   - no cookie: the request proceeds unauthenticated.
//   - revoked or invalid session: state is torn down, the cookie cleared, and
//     the browser sent to the root.
//   - transient validation failure: the request proceeds unauthenticated
//     without clearing anything; the next request retries.
func WithSession(svc SessionServiceInterface, cookie CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == SSOCallbackPath || r.URL.Query().Get("token") != "" {
				next.ServeHTTP(w, r)
				return
			}

			c, err := r.Cookie(cookie.Name)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), nil)))
				return
			}

			sess, err := svc.Resolve(r.Context(), c.Value)
			if err != nil {
				if errors.Is(err, upstream.ErrSessionRevoked) ||
					apperrors.GetCode(err) == apperrors.ErrCodeSessionInvalid {
					clearCookie(w, r, cookie, cookie.Name)
					http.Redirect(w, r, "/", http.StatusFound)
					return
				}
				next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), nil)))
				return
			}

			ctx := SetSessionInContext(r.Context(), sess)
			ctx = upstream.WithSessionID(ctx, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles returns a middleware that gates a route on the allowed roles.
// Denied visitors are redirected to their own role's landing route with a
// flash cookie naming the role they actually hold; unauthenticated visitors
// go to the root. Passing no roles admits any authenticated session.
func RequireRoles(svc SessionServiceInterface, cookie CookieConfig, allowed ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := SessionFromContext(r.Context())
			decision := Decide(GuardInput{
				Hydrated: IsHydrated(r.Context()),
				Session:  sess,
				Allowed:  allowed,
			})

			switch decision.State {
			case GuardAuthorized:
				next.ServeHTTP(w, r)
			case GuardDenied:
				svc.RecordDenied(r.Context(), sess, r.URL.Path)
				setDeniedFlash(w, r, cookie, decision.Role)
				http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
			case GuardInvalid:
				if sess != nil {
					if err := svc.Logout(r.Context(), sess.ID); err != nil {
						slog.Default().WarnContext(r.Context(), "logout of invalid session failed",
							slog.Any("error", err))
					}
				}
				clearCookie(w, r, cookie, cookie.Name)
				http.Redirect(w, r, "/", http.StatusFound)
			default:
				// Loading (guard used without hydration) and
				// Unauthenticated both fall back to the root.
				http.Redirect(w, r, "/", http.StatusFound)
			}
		})
	}
}
