package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rackledger/inventory/internal/api/metrics"
	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

// AuthService implements login, request authentication and logout.
type AuthService struct {
	users    ports.UserRepository
	tokens   *TokenService
	denylist ports.TokenDenylist
	log      zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, tokens *TokenService, denylist ports.TokenDenylist, log zerolog.Logger) *AuthService {
	if denylist == nil {
		denylist = NopDenylist{}
	}
	return &AuthService{users: users, tokens: tokens, denylist: denylist, log: log}
}

// Login checks the credentials, then the account status, and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.AccessToken, error) {
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if !checkPassword(user.PasswordHash, password) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active() {
		metrics.LoginAttemptsTotal.WithLabelValues("disabled").Inc()
		s.log.Info().Str("username", username).Str("status", user.Status).Msg("login refused for inactive account")
		return nil, domain.ErrAccountDisabled
	}

	token, claims, err := s.tokens.Issue(user.Username)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", user.Username).Msg("user logged in")
	return &ports.AccessToken{Token: token, Type: "bearer", ExpiresAt: claims.ExpiresAt, User: user}, nil
}

// Authenticate resolves a bearer token to the live user record. Revoked
// tokens, deleted users and accounts no longer active are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, ports.TokenClaims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ports.TokenClaims{}, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, ports.TokenClaims{}, fmt.Errorf("authenticate: %w", err)
	}
	if revoked {
		return nil, ports.TokenClaims{}, domain.ErrInvalidToken
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ports.TokenClaims{}, domain.ErrInvalidToken
		}
		return nil, ports.TokenClaims{}, fmt.Errorf("authenticate: %w", err)
	}
	if !user.Active() {
		return nil, ports.TokenClaims{}, domain.ErrAccountDisabled
	}
	return user, claims, nil
}

// Logout revokes the token described by claims until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims ports.TokenClaims) error {
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return err
	}
	s.log.Info().Str("username", claims.Subject).Msg("token revoked")
	return nil
}

// NopDenylist is used when no Redis is configured: nothing is ever revoked
// and logout reports domain.ErrRevocationDisabled.
type NopDenylist struct{}

func (NopDenylist) Revoke(context.Context, string, time.Time) error { return domain.ErrRevocationDisabled }

func (NopDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }
