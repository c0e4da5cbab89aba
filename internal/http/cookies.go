package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
)

// DeniedFlashCookie carries the role name shown in the "you were redirected"
// notice after a guard denial. It is readable by the frontend, so it is the
// one cookie here that is not HttpOnly.
const DeniedFlashCookie = "nominate_denied"

// CookieConfig groups the session cookie attributes shared by handlers and
// middleware.
type CookieConfig struct {
	Name   string
	Domain string
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setSessionCookie writes the session cookie with an expiry matching the
// session's.
func setSessionCookie(w http.ResponseWriter, r *http.Request, cfg CookieConfig, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    s.ID,
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately. It mirrors
// the attributes used when setting cookies so deletion works across browsers.
func clearCookie(w http.ResponseWriter, r *http.Request, cfg CookieConfig, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies removes every cookie the gateway owns: the session
// cookie, the denial flash, and the provider-flow cookies. Logout must leave
// no gateway state behind in the browser.
func clearAuthCookies(w http.ResponseWriter, r *http.Request, cfg CookieConfig) {
	for _, name := range []string{
		cfg.Name,
		DeniedFlashCookie,
		"oauth_state",
		"oauth_nonce",
		"post_login_redirect",
	} {
		clearCookie(w, r, cfg, name)
	}
}

// setDeniedFlash records which role the denied visitor actually holds so the
// landing page can explain the redirect.
func setDeniedFlash(w http.ResponseWriter, r *http.Request, cfg CookieConfig, role domainauth.Role) {
	http.SetCookie(w, &http.Cookie{
		Name:     DeniedFlashCookie,
		Value:    string(role),
		Path:     "/",
		Domain:   cfg.Domain,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30,
	})
}

// safeRedirectPath ensures the provided redirect is a same-origin relative
// path starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
