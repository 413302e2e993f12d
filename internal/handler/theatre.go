package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/middleware"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/service"
)

// TheatreHandler exposes the theatre resource over HTTP.
type TheatreHandler struct {
	svc *service.TheatreService
}

// NewTheatreHandler constructs a TheatreHandler.
func NewTheatreHandler(svc *service.TheatreService) *TheatreHandler {
	return &TheatreHandler{svc: svc}
}

// List handles GET /theatres with optional ?name= and ?cinema_id= filters.
func (h *TheatreHandler) List(c echo.Context) error {
	f := repository.TheatreFilter{
		Name:     c.QueryParam("name"),
		CinemaID: c.QueryParam("cinema_id"),
	}
	views, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /theatres/:id.
func (h *TheatreHandler) Get(c echo.Context) error {
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

// Create handles POST /theatres.
func (h *TheatreHandler) Create(c echo.Context) error {
	var in service.TheatreInput
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

// Update handles PATCH /theatres/:id.
func (h *TheatreHandler) Update(c echo.Context) error {
	var patch service.TheatrePatch
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

// Replace handles PUT /theatres/:id.
func (h *TheatreHandler) Replace(c echo.Context) error {
	var in service.TheatreInput
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

// Delete handles DELETE /theatres/:id.
func (h *TheatreHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), id, ifMatch(c)); err != nil {
		return writeServiceError(c, err)
	}
	return deleted(c, id)
}
