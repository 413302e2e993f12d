package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/middleware"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/service"
)

// CinemaHandler exposes the cinema resource over HTTP. Every representation
// carries a strong entity tag in the ETag header; writes are guarded by
// If-Match preconditions.
type CinemaHandler struct {
	svc *service.CinemaService
}

// NewCinemaHandler constructs a CinemaHandler.
func NewCinemaHandler(svc *service.CinemaService) *CinemaHandler {
	return &CinemaHandler{svc: svc}
}

// List handles GET /cinemas with an optional ?name= substring filter.
func (h *CinemaHandler) List(c echo.Context) error {
	f := repository.CinemaFilter{Name: c.QueryParam("name")}
	views, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /cinemas/:id. A matching If-None-Match header short
// circuits to 304 with the current tag.
func (h *CinemaHandler) Get(c echo.Context) error {
	view, tag, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set("ETag", tag)
	if ifNoneMatch(c, tag) {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /cinemas.
func (h *CinemaHandler) Create(c echo.Context) error {
	var in service.CinemaInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	view, tag, err := h.svc.Create(c.Request().Context(), in, middleware.ActorID(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set("ETag", tag)
	return c.JSON(http.StatusCreated, view)
}

// Update handles PATCH /cinemas/:id under an If-Match precondition.
func (h *CinemaHandler) Update(c echo.Context) error {
	var patch service.CinemaPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c)
	}
	view, tag, err := h.svc.Update(c.Request().Context(), c.Param("id"), patch, ifMatch(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set("ETag", tag)
	return c.JSON(http.StatusOK, view)
}

// Replace handles PUT /cinemas/:id under an If-Match precondition.
func (h *CinemaHandler) Replace(c echo.Context) error {
	var in service.CinemaInput
	if err := c.Bind(&in); err != nil {
		return bindError(c)
	}
	view, tag, err := h.svc.Replace(c.Request().Context(), c.Param("id"), in, ifMatch(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set("ETag", tag)
	return c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /cinemas/:id. If-Match is honoured when present.
func (h *CinemaHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), id, ifMatch(c)); err != nil {
		return writeServiceError(c, err)
	}
	return deleted(c, id)
}
