package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rackledger/inventory/internal/core/ports"
)

// AuthService is the part of the auth service used over HTTP.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*ports.AccessToken, error)
	Logout(ctx context.Context, claims ports.TokenClaims) error
}

type AuthHandler struct {
	authService AuthService
	now         func() time.Time
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService, now: time.Now}
}

// Login exchanges credentials for a bearer token.
//
// @Summary      Login
// @Description  Accepts a form (username, password) or the same fields as JSON.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/token [post]
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token.Token,
		TokenType:   token.Type,
		ExpiresIn:   int64(token.ExpiresAt.Sub(h.now()).Seconds()),
	})
}

// Logout revokes the presented token.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      501  {object}  errorResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
