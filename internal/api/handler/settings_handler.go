package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/ports"
	"github.com/rackledger/inventory/internal/core/service"
)

type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get returns the caller's account.
//
// @Summary      Current account
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/settings/me [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	me, err := h.service.Me(c.Request().Context(), user.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, me)
}

// Update changes the caller's email, number or password.
//
// @Summary      Update current account
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      object  true  "Any of email, number, password"
// @Success      200   {object}  domain.User
// @Failure      422   {object}  errorResponse
// @Router       /api/settings/me [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}
	patch, err := changelog.Decode(body, service.SettingsFields)
	if err != nil {
		return err
	}
	me, err := h.service.UpdateMe(c.Request().Context(), user.Username, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, me)
}
