package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
	"github.com/campuslabs/nominate-gateway/internal/service"
)

// SSOCallbackPath is where the university SSO portal sends the browser after
// a successful external login.
const SSOCallbackPath = "/auth/sso/callback"

// SSOHandlers completes external logins delivered as query parameters:
// token (the upstream credential), role (numeric role id), first_login, and
// firstname.
type SSOHandlers struct {
	Svc    SessionServiceInterface
	Cookie CookieConfig
	Logger *slog.Logger
}

func (h *SSOHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Callback handles GET /auth/sso/callback.
//
// The token is consumed exactly once: a replayed URL (history navigation,
// refresh on the callback) does not re-establish a session and is bounced to
// the landing route the role parameter implies. A missing token goes to the
// root. Any previous session is replaced wholesale.
func (h *SSOHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("token")
	if token == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	roleHint := q.Get("role")

	first, err := h.Svc.ConsumeSSOToken(r.Context(), token)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "consuming login token failed", slog.Any("error", err))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if !first {
		// Replay: the session from the first pass (if any) stays intact;
		// just route the browser where it belongs.
		http.Redirect(w, r, landingForHint(roleHint), http.StatusFound)
		return
	}

	// Drop any stale session before establishing the new one.
	if c, cookieErr := r.Cookie(h.Cookie.Name); cookieErr == nil && c.Value != "" {
		if logoutErr := h.Svc.Logout(r.Context(), c.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "replacing stale session failed", slog.Any("error", logoutErr))
		}
	}

	firstname := q.Get("firstname")
	// The portal omits the firstname for accounts that never completed
	// profile setup, so its absence implies a first login even when the
	// flag is missing.
	firstLogin := q.Get("first_login") == "true" || firstname == ""

	profile := map[string]any{}
	if firstname != "" {
		profile["firstname"] = firstname
	}

	sess, err := h.Svc.Login(r.Context(), service.LoginInput{
		Credential: token,
		RoleHint:   roleHint,
		Profile:    profile,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "sso login failed", slog.Any("error", err))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	setSessionCookie(w, r, h.Cookie, sess)

	destination := domainauth.LandingRoute(sess.Role)
	if firstLogin {
		destination = domainauth.FirstRunRoute(sess.Role)
	}
	http.Redirect(w, r, destination, http.StatusFound)
}

// landingForHint maps the role query parameter to a landing route without a
// session, degrading to the root when the hint is unrecognized.
func landingForHint(roleHint string) string {
	id, chairman, ok := domainauth.ParseRoleHint(roleHint)
	if !ok {
		return "/"
	}
	return domainauth.LandingRoute(domainauth.MapRole(id, chairman))
}
