package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/ports"
)

// ResourceService is what ResourceHandler needs from a service.
type ResourceService[T any] interface {
	ports.ResourceService[T]
	Fields() *changelog.Schema[T]
}

// createRequest is implemented by the pointer of every create payload.
type createRequest[R any, T any] interface {
	*R
	entity() (*T, error)
}

// ResourceHandler serves list, get, create and update for one collection.
type ResourceHandler[T any] struct {
	service ResourceService[T]
	decode  func(c echo.Context) (*T, error)
}

func newResourceHandler[T any, R any, P createRequest[R, T]](service ResourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		service: service,
		decode: func(c echo.Context) (*T, error) {
			req := P(new(R))
			if err := bindStrict(c, req); err != nil {
				return nil, err
			}
			return req.entity()
		},
	}
}

// List handles GET /api/{resource}.
//
// @Summary      List a collection
// @Description  Returns every row in insertion order. q filters by a case-insensitive substring of the searchable columns.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true   "Collection"  Enums(servers, domains, projects, groups, finance, users)
// @Param        q         query     string  false  "Search text"
// @Success      200       {array}   object
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /api/{resource} [get]
func (h *ResourceHandler[T]) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/{resource}/{id}.
//
// @Summary      Get one row
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true  "Collection"  Enums(servers, domains, projects, groups, finance, users)
// @Param        id        path      int     true  "Row id"
// @Success      200       {object}  object
// @Failure      404       {object}  errorResponse
// @Router       /api/{resource}/{id} [get]
func (h *ResourceHandler[T]) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	entity, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entity)
}

// Create handles POST /api/{resource}. Unknown fields are rejected.
//
// @Summary      Create a row
// @Description  Records a "Created" history entry attributed to the caller.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true  "Collection"  Enums(servers, domains, projects, groups, finance, users)
// @Param        body      body      object  true  "Row fields"
// @Success      201       {object}  object
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /api/{resource} [post]
func (h *ResourceHandler[T]) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	entity, err := h.decode(c)
	if err != nil {
		return err
	}
	created, err := h.service.Create(c.Request().Context(), entity, user.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/{resource}/{id} with a partial body. Only fields
// whose value differs are written and recorded, in the order supplied.
//
// @Summary      Update a row
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true  "Collection"  Enums(servers, domains, projects, groups, finance, users)
// @Param        id        path      int     true  "Row id"
// @Param        body      body      object  true  "Fields to change"
// @Success      200       {object}  object
// @Failure      404       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /api/{resource}/{id} [put]
func (h *ResourceHandler[T]) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}
	patch, err := changelog.Decode(body, h.service.Fields())
	if err != nil {
		return err
	}
	updated, err := h.service.Update(c.Request().Context(), id, patch, user.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
