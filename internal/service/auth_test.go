package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
	"github.com/target/backoffice-ui/internal/listing"
	"github.com/target/backoffice-ui/internal/mocks"
	authmocks "github.com/target/backoffice-ui/internal/mocks/auth"
	"github.com/target/backoffice-ui/internal/ports"
	"go.uber.org/mock/gomock"
)

func newTestAuthService(provider ports.AuthProvider, sessions ports.SessionStore, viewState ports.ViewStateCleaner) *AuthService {
	return NewAuthService(AuthServiceOptions{
		Provider:  provider,
		Sessions:  sessions,
		Roles:     authmocks.StaticRoleMapper{AdminGroup: "finance-admins", UserGroup: "finance-users"},
		ViewState: viewState,
	})
}

func TestAuthService_BeginLogin(t *testing.T) {
	tests := []struct {
		name        string
		provider    *authmocks.MockAuthProvider
		redirectURL string
		wantErr     string
	}{
		{
			name:        "success",
			provider:    authmocks.NewMockAuthProvider(),
			redirectURL: "http://localhost:8080/auth/callback",
		},
		{
			name:     "empty redirect",
			provider: authmocks.NewMockAuthProvider(),
			wantErr:  "redirect URL is required",
		},
		{
			name: "provider error",
			provider: &authmocks.MockAuthProvider{
				BeginFunc: func(context.Context, ports.BeginInput) (string, string, string, error) {
					return "", "", "", errors.New("idp down")
				},
			},
			redirectURL: "http://localhost:8080/auth/callback",
			wantErr:     "begin auth flow: idp down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(tt.provider, authmocks.NewMemorySessionStore(), nil)

			res, err := svc.BeginLogin(context.Background(), tt.redirectURL)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, authmocks.DefaultIssuer+"?redirect_uri="+url.QueryEscape(tt.redirectURL)+"&state=state-1", res.AuthURL)
			assert.Equal(t, "state-1", res.State)
			assert.Equal(t, "nonce-1", res.Nonce)
		})
	}
}

func TestAuthService_CompleteLogin(t *testing.T) {
	provider := authmocks.NewMockAuthProvider()
	provider.Identity.Groups = []string{"finance-admins"}
	sessions := authmocks.NewMemorySessionStore()
	svc := newTestAuthService(provider, sessions, nil)

	res, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "code", State: "state", Nonce: "nonce"})
	require.NoError(t, err)

	sess := res.Session
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "ap-clerk", sess.UserID)
	assert.Equal(t, "Avery", sess.FirstName)
	assert.Equal(t, domainauth.RoleAdmin, sess.Role)
	assert.Equal(t, "backend-token-ap-clerk", sess.AccessToken, "the backend token travels with the session")
	assert.Equal(t, []ports.ExchangeInput{{Code: "code", State: "state", Nonce: "nonce"}}, provider.Exchanges())
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	stored, err := sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, stored)
}

func TestAuthService_CompleteLogin_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    CompleteLoginInput
		provider *authmocks.MockAuthProvider
		sessions ports.SessionStore
		wantErr  string
	}{
		{
			name:    "missing code",
			input:   CompleteLoginInput{State: "s", Nonce: "n"},
			wantErr: "authorization code is required",
		},
		{
			name:    "missing state",
			input:   CompleteLoginInput{Code: "c", Nonce: "n"},
			wantErr: "state parameter is required",
		},
		{
			name:    "missing nonce",
			input:   CompleteLoginInput{Code: "c", State: "s"},
			wantErr: "nonce parameter is required",
		},
		{
			name:  "exchange error",
			input: CompleteLoginInput{Code: "c", State: "s", Nonce: "n"},
			provider: &authmocks.MockAuthProvider{
				ExchangeFunc: func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
					return domainauth.Identity{}, errors.New("bad code")
				},
			},
			wantErr: "exchange authorization code: bad code",
		},
		{
			name:     "identity without backend token",
			input:    CompleteLoginInput{Code: "c", State: "s", Nonce: "n"},
			provider: &authmocks.MockAuthProvider{Identity: domainauth.Identity{UserID: "ap-clerk", Groups: []string{"finance-users"}}},
			wantErr:  "identity carries no backend access token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := tt.provider
			if provider == nil {
				provider = authmocks.NewMockAuthProvider()
			}
			sessions := authmocks.NewMemorySessionStore()
			svc := newTestAuthService(provider, sessions, nil)

			res, err := svc.CompleteLogin(context.Background(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, res)
			assert.Zero(t, sessions.Len())
		})
	}
}

func TestAuthService_CompleteLogin_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionStore(ctrl)
	sessions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := newTestAuthService(authmocks.NewMockAuthProvider(), sessions, nil)
	res, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session: redis down")
	assert.Nil(t, res)
}

func TestAuthService_GetSession(t *testing.T) {
	ctx := context.Background()
	sessions := authmocks.NewMemorySessionStore()
	svc := newTestAuthService(authmocks.NewMockAuthProvider(), sessions, nil)

	live := domainauth.Session{ID: "live", UserID: "u1", Role: domainauth.RoleUser, ExpiresAt: time.Now().Add(time.Hour)}
	expired := domainauth.Session{ID: "old", UserID: "u2", Role: domainauth.RoleUser, ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, sessions.Save(ctx, live))
	require.NoError(t, sessions.Save(ctx, expired))

	got, err := svc.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	_, err = svc.GetSession(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID is required")

	_, err = svc.GetSession(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get session")

	_, err = svc.GetSession(ctx, "old")
	require.ErrorIs(t, err, errSessionExpired)
	_, err = sessions.Get(ctx, "old")
	assert.ErrorIs(t, err, authmocks.ErrNotFound, "expired sessions are removed")
}

func TestAuthService_GetSession_ExpiredDeleteFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionStore(ctrl)
	sessions.EXPECT().Get(gomock.Any(), "old").
		Return(domainauth.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}, nil)
	sessions.EXPECT().Delete(gomock.Any(), "old").Return(errors.New("redis down"))

	svc := newTestAuthService(authmocks.NewMockAuthProvider(), sessions, nil)
	_, err := svc.GetSession(context.Background(), "old")

	require.ErrorIs(t, err, errSessionExpired)
	assert.Contains(t, err.Error(), "delete session: redis down")
}

func TestAuthService_LogoutDropsListState(t *testing.T) {
	ctx := context.Background()
	sessions := authmocks.NewMemorySessionStore()
	lists := listing.NewMemoryStore()
	svc := newTestAuthService(authmocks.NewMockAuthProvider(), sessions, lists)

	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}))
	_, err := lists.SaveIfNewer(ctx, listing.Key{SessionID: "s1", Resource: "suppliers"}, 1, []byte(`{}`))
	require.NoError(t, err)
	_, err = lists.SaveIfNewer(ctx, listing.Key{SessionID: "s2", Resource: "suppliers"}, 1, []byte(`{}`))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "s1"))
	require.NoError(t, svc.Logout(ctx, ""), "logging out without a session is a no-op")

	_, err = sessions.Get(ctx, "s1")
	require.ErrorIs(t, err, authmocks.ErrNotFound)
	assert.Equal(t, 0, lists.Len("s1"))
	assert.Equal(t, 1, lists.Len("s2"), "other sessions keep their lists")
}

func TestAuthService_Invalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("requires session id", func(t *testing.T) {
		svc := newTestAuthService(authmocks.NewMockAuthProvider(), authmocks.NewMemorySessionStore(), nil)
		require.Error(t, svc.Invalidate(ctx, ""))
	})

	t.Run("joins failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := mocks.NewMockSessionStore(ctrl)
		lists := mocks.NewMockStateStore(ctrl)
		sessions.EXPECT().Delete(gomock.Any(), "s1").Return(errors.New("session gone wrong"))
		lists.EXPECT().DeleteSession(gomock.Any(), "s1").Return(errors.New("lists gone wrong"))

		svc := newTestAuthService(authmocks.NewMockAuthProvider(), sessions, lists)
		err := svc.Invalidate(ctx, "s1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "delete session: session gone wrong")
		assert.Contains(t, err.Error(), "delete list state: lists gone wrong")
	})

	t.Run("satisfies the listing invalidator", func(t *testing.T) {
		var _ listing.SessionInvalidator = (*AuthService)(nil)
	})
}
