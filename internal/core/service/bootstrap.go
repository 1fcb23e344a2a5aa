package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rackledger/inventory/internal/core/domain"
)

// SystemActor is recorded as the author of changes made at start-up.
const SystemActor = "system"

// AdminSeed is the account created on first start.
type AdminSeed struct {
	Username string
	Password string
	Email    string
}

// SeedAdmin creates the default Super Admin when none exists and the seed
// username is free. It reports whether an account was created.
func SeedAdmin(ctx context.Context, users *UserService, seed AdminSeed, log zerolog.Logger) (bool, error) {
	n, err := users.users.CountByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	existing, err := users.users.FindByUsername(ctx, seed.Username)
	switch {
	case err == nil:
		log.Warn().
			Str("username", seed.Username).
			Str("role", string(existing.Role)).
			Msg("no Super Admin exists but the seed username is taken; skipping seed")
		return false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return false, fmt.Errorf("seed admin: %w", err)
	}

	_, err = users.Create(ctx, &domain.User{
		Username: seed.Username,
		Email:    seed.Email,
		Password: seed.Password,
		Role:     domain.RoleSuperAdmin,
		Status:   domain.StatusActive,
	}, SystemActor)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	log.Warn().
		Str("username", seed.Username).
		Msg("seeded default Super Admin account; change its password before exposing the service")
	return true, nil
}
