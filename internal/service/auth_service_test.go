package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/searchly/bff/internal/cache"
	"github.com/searchly/bff/internal/utils"
	"github.com/searchly/bff/pkg/searchly"
)

func init() {
	utils.SetJWTSecret("test-secret")
}

func newAuthFixture(backend *fakeBackend) (*AuthService, *cache.SessionCache) {
	sessions := cache.NewSessionCache(newMemKV(), time.Hour)
	return NewAuthService(backend, sessions), sessions
}

func TestLoginIssuesSessionTokenAndStoresProfile(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(_ context.Context, email, _ string) (*searchly.AuthResponse, error) {
			return &searchly.AuthResponse{AccessToken: "backend-token", Name: "Ada", Email: email}, nil
		},
	}
	svc, sessions := newAuthFixture(backend)

	token, profile, err := svc.Login(context.Background(), testEmail, "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "Ada", profile.Name)

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	require.Equal(t, testEmail, claims.Email)

	stored, err := sessions.GetProfile(context.Background(), testEmail)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "backend-token", stored.BackendToken)
}

func TestLoginMapsBackendCredentialFailure(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(context.Context, string, string) (*searchly.AuthResponse, error) {
			return nil, searchly.ErrInvalidCredentials
		},
	}
	svc, _ := newAuthFixture(backend)

	_, _, err := svc.Login(context.Background(), testEmail, "wrong")
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestRegisterMapsExistingUser(t *testing.T) {
	backend := &fakeBackend{
		registerFn: func(context.Context, string, string, string) (*searchly.AuthResponse, error) {
			return nil, searchly.ErrUserExists
		},
	}
	svc, _ := newAuthFixture(backend)

	_, _, err := svc.Register(context.Background(), "Ada", testEmail, "hunter22")
	require.ErrorIs(t, err, utils.ErrUserExists)
}

func TestLogoutDropsProfile(t *testing.T) {
	backend := &fakeBackend{}
	svc, sessions := newAuthFixture(backend)

	_, _, err := svc.Login(context.Background(), testEmail, "hunter22")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), testEmail))

	stored, err := sessions.GetProfile(context.Background(), testEmail)
	require.NoError(t, err)
	require.Nil(t, stored)
}
