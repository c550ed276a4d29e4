package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/searchly/bff/internal/cache"
	"github.com/searchly/bff/internal/models"
	"github.com/searchly/bff/internal/utils"
	"github.com/searchly/bff/pkg/searchly"
)

// AuthService proxies authentication to the remote backend and manages the
// local session: the backend access token stays server-side in the session
// cache, and the client receives a locally issued session JWT instead.
type AuthService struct {
	backend  Backend
	sessions *cache.SessionCache
}

// NewAuthService constructs an AuthService.
func NewAuthService(backend Backend, sessions *cache.SessionCache) *AuthService {
	return &AuthService{backend: backend, sessions: sessions}
}

// Login authenticates against the backend and returns a session token plus
// the user profile.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.SessionProfile, error) {
	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return "", nil, mapAuthError(err)
	}

	profile := &models.SessionProfile{
		Name:         resp.Name,
		Email:        resp.Email,
		BackendToken: resp.AccessToken,
		LoggedInAt:   time.Now(),
	}
	if profile.Email == "" {
		profile.Email = email
	}

	if err := s.sessions.SetProfile(ctx, profile); err != nil {
		log.Warn().Err(err).Str("email", profile.Email).Msg("Failed to store session profile")
	}

	token, err := utils.GenerateJWT(profile.Email, profile.Name)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("email", profile.Email).Msg("Login successful")
	return token, profile, nil
}

// Register creates an account on the backend and starts a session for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *models.SessionProfile, error) {
	resp, err := s.backend.Register(ctx, name, email, password)
	if err != nil {
		return "", nil, mapAuthError(err)
	}

	profile := &models.SessionProfile{
		Name:         resp.Name,
		Email:        resp.Email,
		BackendToken: resp.AccessToken,
		LoggedInAt:   time.Now(),
	}
	if profile.Name == "" {
		profile.Name = name
	}
	if profile.Email == "" {
		profile.Email = email
	}

	if err := s.sessions.SetProfile(ctx, profile); err != nil {
		log.Warn().Err(err).Str("email", profile.Email).Msg("Failed to store session profile")
	}

	token, err := utils.GenerateJWT(profile.Email, profile.Name)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("email", profile.Email).Msg("Registration successful")
	return token, profile, nil
}

// Logout drops the session profile.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	if email == "" {
		return utils.ErrMissingIdentity
	}
	return s.sessions.DeleteProfile(ctx, email)
}

// mapAuthError translates backend failure modes into the local taxonomy.
func mapAuthError(err error) error {
	switch {
	case errors.Is(err, searchly.ErrInvalidCredentials):
		return utils.ErrInvalidCredentials
	case errors.Is(err, searchly.ErrUserExists):
		return utils.ErrUserExists
	case errors.Is(err, searchly.ErrUserNotRegistered):
		return utils.ErrUserNotRegistered
	default:
		return mapGatewayError(err)
	}
}
