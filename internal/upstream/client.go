package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is the typed surface of the upstream nomination API consumed by the
// session subsystem, plus a Forward passthrough for business endpoints. All
// calls go through the shared interceptor chain.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// ClientOptions groups configuration for the upstream client.
type ClientOptions struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewClient builds the shared upstream client. The timeout bounds every
// call, session validation included, so a hung upstream fails the request
// instead of leaving it pending forever.
func NewClient(opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		logger:     logger,
	}
}

// Me returns the raw principal payload for the session carried by ctx.
// A 401 surfaces as ErrSessionRevoked from the transport.
func (c *Client) Me(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("build /auth/me request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream /auth/me: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream /auth/me: unexpected status %d", resp.StatusCode)
	}

	var payload map[string]any
	if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr != nil {
		return nil, fmt.Errorf("decode /auth/me response: %w", decodeErr)
	}
	return payload, nil
}

// Logout notifies the upstream that the session ended. The caller ignores
// failures; logout must complete locally regardless of reachability.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("build /auth/logout request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream /auth/logout: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("upstream /auth/logout: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Forward relays a business request to the upstream API and returns the
// response for the HTTP layer to copy back. pathAndQuery must start with "/".
func (c *Client) Forward(ctx context.Context, in ForwardInput) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, in.Method, c.baseURL+in.PathAndQuery, in.Body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	if ct := in.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if accept := in.Header.Get("Accept"); accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream %s %s: %w", in.Method, in.PathAndQuery, err)
	}
	return resp, nil
}

// ForwardInput groups parameters for Forward.
type ForwardInput struct {
	Method       string
	PathAndQuery string
	Body         io.Reader
	Header       http.Header
}
