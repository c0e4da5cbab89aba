package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCredentials struct {
	creds map[string]string
}

func (f *fakeCredentials) Credential(_ context.Context, id string) (string, error) {
	cred, ok := f.creds[id]
	if !ok {
		return "", errors.New("not found")
	}
	return cred, nil
}

type fakeRevoker struct {
	cleared []string
}

func (f *fakeRevoker) Clear(_ context.Context, id string) error {
	f.cleared = append(f.cleared, id)
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, revoker *fakeRevoker) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	transport := NewTransport(TransportOptions{
		Credentials:         &fakeCredentials{creds: map[string]string{"s1": "tok-1"}},
		Revoker:             revoker,
		PassthroughPrefixes: []string{"/api/users/list", "/api/audit-logs"},
	})
	client := NewClient(ClientOptions{
		BaseURL:   srv.URL,
		Timeout:   5 * time.Second,
		Transport: transport,
	})
	return client, srv
}

func TestTransport_AttachesBearerCredential(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"role_id": 3}`))
	})
	client, _ := newTestClient(t, handler, &fakeRevoker{})

	ctx := WithSessionID(context.Background(), "s1")
	_, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestTransport_NoCredentialPassesThroughUnmodified(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"role_id": 3}`))
	})
	client, _ := newTestClient(t, handler, &fakeRevoker{})

	// Session id with no stored credential.
	ctx := WithSessionID(context.Background(), "unknown")
	_, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	// No session at all.
	_, err = client.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestTransport_401OnPassthroughPathIsReturned(t *testing.T) {
	revoker := &fakeRevoker{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, _ := newTestClient(t, handler, revoker)

	ctx := WithSessionID(context.Background(), "s1")
	resp, err := client.Forward(ctx, ForwardInput{
		Method:       http.MethodGet,
		PathAndQuery: "/api/users/list?page=2",
		Header:       http.Header{},
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, revoker.cleared, "passthrough 401 must not clear session state")
}

func TestTransport_401ElsewhereRevokesSession(t *testing.T) {
	revoker := &fakeRevoker{}
	var forcedSession, forcedPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	transport := NewTransport(TransportOptions{
		Credentials:         &fakeCredentials{creds: map[string]string{"s1": "tok-1"}},
		Revoker:             revoker,
		PassthroughPrefixes: []string{"/api/users/list"},
		OnForcedLogout: func(_ context.Context, sessionID, path string) {
			forcedSession, forcedPath = sessionID, path
		},
	})
	client := NewClient(ClientOptions{BaseURL: srv.URL, Transport: transport})

	ctx := WithSessionID(context.Background(), "s1")
	_, err := client.Forward(ctx, ForwardInput{
		Method:       http.MethodGet,
		PathAndQuery: "/api/nominations/5",
		Header:       http.Header{},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	assert.Equal(t, []string{"s1"}, revoker.cleared)
	assert.Equal(t, "s1", forcedSession)
	assert.Equal(t, "/api/nominations/5", forcedPath)
}

func TestTransport_401OnMeRevokesSession(t *testing.T) {
	revoker := &fakeRevoker{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, _ := newTestClient(t, handler, revoker)

	ctx := WithSessionID(context.Background(), "s1")
	_, err := client.Me(ctx)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	assert.Equal(t, []string{"s1"}, revoker.cleared)
}

func TestTransport_NeverRetries(t *testing.T) {
	var calls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, _ := newTestClient(t, handler, &fakeRevoker{})

	ctx := WithSessionID(context.Background(), "s1")
	_, err := client.Me(ctx)
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestTransport_OtherStatusesPassThrough(t *testing.T) {
	revoker := &fakeRevoker{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client, _ := newTestClient(t, handler, revoker)

	ctx := WithSessionID(context.Background(), "s1")
	_, err := client.Me(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionRevoked)
	assert.Empty(t, revoker.cleared)
}

func TestClient_MeDecodesPrincipal(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user": {"role_id": 6, "is_chairman": true}}`))
	})
	client, _ := newTestClient(t, handler, &fakeRevoker{})

	payload, err := client.Me(WithSessionID(context.Background(), "s1"))
	require.NoError(t, err)
	assert.Contains(t, payload, "user")
}
