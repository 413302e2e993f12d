package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/middleware"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/service"
)

// ScreenHandler exposes the screen resource over HTTP.
type ScreenHandler struct {
	svc *service.ScreenService
}

// NewScreenHandler constructs a ScreenHandler.
func NewScreenHandler(svc *service.ScreenService) *ScreenHandler {
	return &ScreenHandler{svc: svc}
}

// List handles GET /screens with optional ?theatre_id= and ?screen_number= filters.
func (h *ScreenHandler) List(c echo.Context) error {
	f := repository.ScreenFilter{TheatreID: c.QueryParam("theatre_id")}
	if raw := c.QueryParam("screen_number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "screen_number must be an integer"})
		}
		f.ScreenNumber = &n
	}
	views, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /screens/:id.
func (h *ScreenHandler) Get(c echo.Context) error {
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

// Create handles POST /screens.
func (h *ScreenHandler) Create(c echo.Context) error {
	var in service.ScreenInput
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

// Update handles PATCH /screens/:id.
func (h *ScreenHandler) Update(c echo.Context) error {
	var patch service.ScreenPatch
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

// Replace handles PUT /screens/:id.
func (h *ScreenHandler) Replace(c echo.Context) error {
	var in service.ScreenInput
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

// Delete handles DELETE /screens/:id.
func (h *ScreenHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), id, ifMatch(c)); err != nil {
		return writeServiceError(c, err)
	}
	return deleted(c, id)
}
