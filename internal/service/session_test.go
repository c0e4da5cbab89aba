package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
	apperrors "github.com/campuslabs/nominate-gateway/internal/errors"
	"github.com/campuslabs/nominate-gateway/internal/mocks"
	"github.com/campuslabs/nominate-gateway/internal/upstream"
)

func newService(t *testing.T) (*SessionService, *mocks.MockSessionStore, *mocks.MockUpstreamAuthAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	api := mocks.NewMockUpstreamAuthAPI(ctrl)
	svc := NewSessionService(SessionServiceOptions{
		Store:      store,
		Upstream:   api,
		SessionTTL: time.Hour,
	})
	return svc, store, api
}

func TestLogin_RoleFromProfile(t *testing.T) {
	svc, store, _ := newService(t)

	var saved domainauth.Session
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sess domainauth.Session) error {
			saved = sess
			return nil
		})

	sess, err := svc.Login(context.Background(), LoginInput{
		Credential: "tok-1",
		RoleHint:   "1",
		Profile: map[string]any{
			"role_id":   float64(7),
			"committee": map[string]any{"is_chairman": true},
			"firstname": "Ada",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domainauth.RoleNominationChairman, sess.Role)
	assert.Equal(t, "Ada", sess.Identity.FirstName)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, saved, sess, "persisted session must match the returned one")
	assert.True(t, sess.Valid())
}

func TestLogin_RoleHintFallback(t *testing.T) {
	svc, store, _ := newService(t)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	sess, err := svc.Login(context.Background(), LoginInput{
		Credential: "tok-1",
		RoleHint:   "3",
		Profile:    map[string]any{"firstname": "Ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleDean, sess.Role)
	assert.Equal(t, "Ada", sess.Identity.FirstName)
}

func TestLogin_RoleStringHint(t *testing.T) {
	// The portal's login redirect may carry the role as its normalized string
	// instead of the numeric id, with no profile data at all.
	svc, store, _ := newService(t)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	sess, err := svc.Login(context.Background(), LoginInput{
		Credential: "abc",
		RoleHint:   "organization",
		Profile:    map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleOrganization, sess.Role)
	assert.Equal(t, "/organization/setup", domainauth.FirstRunRoute(sess.Role))

	chair, err := svc.Login(context.Background(), LoginInput{
		Credential: "def",
		RoleHint:   "chairman_of_university_nomination_committee",
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleNominationChairman, chair.Role)
}

func TestLogin_BaselineRoleWithoutHint(t *testing.T) {
	svc, store, _ := newService(t)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	sess, err := svc.Login(context.Background(), LoginInput{Credential: "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, sess.Role)
}

func TestLogin_RequiresCredential(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Login(context.Background(), LoginInput{RoleHint: "3"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
}

func TestLogin_ShorterProviderExpiryWins(t *testing.T) {
	svc, store, _ := newService(t)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	providerDeadline := time.Now().Add(10 * time.Minute)
	sess, err := svc.Login(context.Background(), LoginInput{
		Credential: "tok-1",
		ExpiresAt:  providerDeadline,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, providerDeadline, sess.ExpiresAt, time.Second)
}

func TestLogout_UpstreamFailureIgnored(t *testing.T) {
	svc, store, api := newService(t)
	api.EXPECT().Logout(gomock.Any()).Return(errors.New("upstream down"))
	store.EXPECT().Clear(gomock.Any(), "s1").Return(nil)

	require.NoError(t, svc.Logout(context.Background(), "s1"))
}

func TestLogout_EmptySessionIsNoop(t *testing.T) {
	svc, _, _ := newService(t)
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestResolve_NoCredentialIsUnauthenticated(t *testing.T) {
	svc, store, _ := newService(t)
	store.EXPECT().Credential(gomock.Any(), "s1").Return("", errors.New("not found"))

	_, err := svc.Resolve(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, apperrors.GetCode(err))
}

func TestResolve_RefreshesSessionFromPrincipal(t *testing.T) {
	svc, store, api := newService(t)
	deadline := time.Now().Add(30 * time.Minute)

	store.EXPECT().Credential(gomock.Any(), "s1").Return("tok-1", nil)
	api.EXPECT().Me(gomock.Any()).DoAndReturn(func(ctx context.Context) (map[string]any, error) {
		id, ok := upstream.SessionIDFromContext(ctx)
		require.True(t, ok, "session id must ride the context so the transport can attach the bearer")
		assert.Equal(t, "s1", id)
		return map[string]any{
			"user": map[string]any{"role_id": float64(6), "is_chairman": false},
		}, nil
	})
	store.EXPECT().Get(gomock.Any(), "s1").Return(domainauth.Session{ID: "s1", ExpiresAt: deadline}, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	sess, err := svc.Resolve(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudentDevMember, sess.Role)
	assert.Equal(t, "tok-1", sess.Credential)
	assert.Equal(t, deadline, sess.ExpiresAt, "revalidation must not extend the session deadline")
}

func TestResolve_RevokedSessionIsUnauthenticated(t *testing.T) {
	svc, store, api := newService(t)
	store.EXPECT().Credential(gomock.Any(), "s1").Return("tok-1", nil)
	// The transport wiped the state already; Resolve must not clear again.
	api.EXPECT().Me(gomock.Any()).Return(nil, upstream.ErrSessionRevoked)

	_, err := svc.Resolve(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, apperrors.GetCode(err))
	assert.ErrorIs(t, err, upstream.ErrSessionRevoked)
}

func TestResolve_TransientFailureKeepsState(t *testing.T) {
	svc, store, api := newService(t)
	store.EXPECT().Credential(gomock.Any(), "s1").Return("tok-1", nil)
	api.EXPECT().Me(gomock.Any()).Return(nil, errors.New("connection refused"))
	// No Clear expectation: a transient failure must not log the user out.

	_, err := svc.Resolve(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, apperrors.GetCode(err))
	assert.NotErrorIs(t, err, upstream.ErrSessionRevoked)
}

func TestResolve_UnresolvableRoleTearsSessionDown(t *testing.T) {
	svc, store, api := newService(t)
	store.EXPECT().Credential(gomock.Any(), "s1").Return("tok-1", nil)
	api.EXPECT().Me(gomock.Any()).Return(map[string]any{"firstname": "Ada"}, nil)
	api.EXPECT().Logout(gomock.Any()).Return(nil)
	store.EXPECT().Clear(gomock.Any(), "s1").Return(nil)

	_, err := svc.Resolve(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSessionInvalid, apperrors.GetCode(err))
}

func TestConsumeSSOToken_OncePerToken(t *testing.T) {
	svc, store, _ := newService(t)

	var digests []string
	store.EXPECT().ConsumeLoginToken(gomock.Any(), gomock.Any(), 10*time.Minute).DoAndReturn(
		func(_ context.Context, digest string, _ time.Duration) (bool, error) {
			digests = append(digests, digest)
			return len(digests) == 1, nil
		}).Times(2)

	first, err := svc.ConsumeSSOToken(context.Background(), "raw-token")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := svc.ConsumeSSOToken(context.Background(), "raw-token")
	require.NoError(t, err)
	assert.False(t, second)

	require.Len(t, digests, 2)
	assert.Equal(t, digests[0], digests[1])
	assert.NotEqual(t, "raw-token", digests[0], "raw token must never reach the store")
	assert.Len(t, digests[0], 64)
}

func TestConsumeSSOToken_EmptyTokenRejected(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.ConsumeSSOToken(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
}

func TestRecordDeniedWithAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	api := mocks.NewMockUpstreamAuthAPI(ctrl)
	audit := mocks.NewMockAuditLog(ctrl)
	svc := NewSessionService(SessionServiceOptions{Store: store, Upstream: api, Audit: audit})

	var got domainauth.AuditEvent
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, event domainauth.AuditEvent) error {
			got = event
			return nil
		})

	sess := &domainauth.Session{ID: "s1", Role: domainauth.RoleStudent}
	svc.RecordDenied(context.Background(), sess, "/dean/dashboard")

	assert.Equal(t, domainauth.AuditDenied, got.Kind)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, domainauth.RoleStudent, got.Role)
	assert.Equal(t, "/dean/dashboard", got.Path)
}
