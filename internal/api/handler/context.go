package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rackledger/inventory/internal/api/middleware"
	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

// currentUser returns the caller resolved by the Auth middleware. Its
// absence means the route was mounted without Auth; fail closed.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}

func currentClaims(c echo.Context) (ports.TokenClaims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(ports.TokenClaims)
	if !ok {
		return ports.TokenClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
