package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rackledger/inventory/internal/api/metrics"
	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

// Context keys set by Auth.
const (
	UserKey     = "user"
	UsernameKey = "username"
	RoleKey     = "role"
	ClaimsKey   = "claims"
)

// Authenticator resolves a bearer token to the live user record.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, ports.TokenClaims, error)
}

// Auth validates the bearer token and injects the caller into context.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject("missing authorization header", domain.ErrUnauthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return reject("invalid authorization header", domain.ErrUnauthenticated)
			}

			user, claims, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrExpiredToken):
				return reject("token expired", err)
			case errors.Is(err, domain.ErrAccountDisabled):
				return reject("account disabled", domain.ErrUnauthenticated)
			case errors.Is(err, domain.ErrInvalidToken):
				return reject("invalid token", err)
			default:
				return err
			}

			c.Set(UserKey, user)
			c.Set(UsernameKey, user.Username)
			c.Set(RoleKey, user.Role)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

func reject(msg string, cause error) error {
	metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(cause)
}
