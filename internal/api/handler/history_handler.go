package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

type HistoryHandler struct {
	service ports.HistoryService
}

func NewHistoryHandler(service ports.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List returns the audit trail of one entity, newest first.
//
// @Summary      Entity history
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Param        type  path      string  true  "Entity type"  Enums(server, domain, project, group, finance, user)
// @Param        id    path      int     true  "Entity id"
// @Success      200   {array}   domain.History
// @Failure      422   {object}  errorResponse
// @Router       /api/history/{type}/{id} [get]
func (h *HistoryHandler) List(c echo.Context) error {
	targetType, err := domain.ParseTargetType(c.Param("type"))
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rows, err := h.service.List(c.Request().Context(), targetType, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}
