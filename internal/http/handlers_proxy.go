package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/campuslabs/nominate-gateway/internal/upstream"
)

// Forwarder relays business requests to the upstream nomination API.
type Forwarder interface {
	Forward(ctx context.Context, in upstream.ForwardInput) (*http.Response, error)
}

// ProxyHandler relays /api/* requests through the interceptor chain, which
// attaches the session's bearer credential and applies the forced-logout
// policy. A revoked session surfaces here as a redirect to the root; the
// allow-listed endpoints get their 401 passed through verbatim.
type ProxyHandler struct {
	Upstream Forwarder
	Cookie   CookieConfig
	Logger   *slog.Logger
}

func (h *ProxyHandler) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Upstream.Forward(r.Context(), upstream.ForwardInput{
		Method:       r.Method,
		PathAndQuery: r.URL.RequestURI(),
		Body:         r.Body,
		Header:       r.Header,
	})
	if err != nil {
		if errors.Is(err, upstream.ErrSessionRevoked) {
			clearCookie(w, r, h.Cookie, h.Cookie.Name)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		h.logger().ErrorContext(r.Context(), "upstream relay failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		WriteError(w, ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "upstream_unavailable",
			Err:     err,
		})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger().DebugContext(r.Context(), "copying upstream response failed", slog.Any("error", err))
	}
}
