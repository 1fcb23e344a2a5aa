package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

// UserService manages operator accounts, including self-service settings.
type UserService struct {
	*Resource[domain.User]
	users ports.UserRepository
}

var _ ports.SettingsService = (*UserService)(nil)

func NewUserService(users ports.UserRepository, tracker *ChangeTracker, log zerolog.Logger) *UserService {
	res := NewResource[domain.User](users, tracker, ResourceConfig[domain.User]{
		Kind:    domain.TargetUser,
		Fields:  UserFields,
		ID:      func(u *domain.User) uint { return u.ID },
		Summary: func(u *domain.User) string { return "Username: " + u.Username },
		Prepare: func(_ context.Context, u *domain.User) error {
			if u.Password == "" {
				return fmt.Errorf("%w: password is required", domain.ErrValidation)
			}
			if !u.Role.Valid() {
				return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, u.Role)
			}
			hash, err := hashPassword(u.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u.PasswordHash = hash
			u.Password = ""
			return nil
		},
	}, log)
	return &UserService{Resource: res, users: users}
}

// Me returns the account of username.
func (s *UserService) Me(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// UpdateMe applies a settings patch to the caller's own account.
func (s *UserService) UpdateMe(ctx context.Context, username string, patch changelog.Patch) (*domain.User, error) {
	user, err := s.Me(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, SettingsFields, patch, username)
}
