package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rackledger/inventory/internal/api/metrics"
	"github.com/rackledger/inventory/internal/core/domain"
)

// RBAC enforces the role set of perm. It must run after Auth.
func RBAC(perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, _ := c.Get(UserKey).(*domain.User); user == nil {
				metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			role, _ := c.Get(RoleKey).(domain.Role)
			if !perm.Allows(role) {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
