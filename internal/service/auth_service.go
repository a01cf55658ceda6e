package service

import (
	"context"
	"strings"
	"time"

	"github.com/wmachadoc/Abertura-de-tickets/internal/auth"
	"github.com/wmachadoc/Abertura-de-tickets/internal/config"
	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// AuthService implements the login flow: look up an active directory user
// by email and issue a session token. There are no passwords in this
// system.
type AuthService struct {
	store    store.Store
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, st store.Store) *AuthService {
	return &AuthService{
		store:    st,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login resolves the email to an active user and issues a token.
func (s *AuthService) Login(ctx context.Context, email string) (*domain.User, string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email required", nil)
	}

	user, err := s.FindActiveUser(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(user.Email, user.Profile)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// FindActiveUser returns the active user with the given email, or
// UNAUTHORIZED when no such user exists. Inactive users cannot log in.
func (s *AuthService) FindActiveUser(ctx context.Context, email string) (*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) && users[i].Active {
			return &users[i], nil
		}
	}
	return nil, apperrors.NewUnauthorized("user not found or inactive")
}
