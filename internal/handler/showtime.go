package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/middleware"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/service"
)

// ShowtimeHandler exposes the showtime resource over HTTP, including the
// seat availability report and the seat-adjustment endpoint.
type ShowtimeHandler struct {
	svc *service.ShowtimeService
}

// NewShowtimeHandler constructs a ShowtimeHandler.
func NewShowtimeHandler(svc *service.ShowtimeService) *ShowtimeHandler {
	return &ShowtimeHandler{svc: svc}
}

// List handles GET /showtimes with optional ?screen_id=, ?movie_id= and
// ?start_time_after= (RFC 3339) filters.
func (h *ShowtimeHandler) List(c echo.Context) error {
	f := repository.ShowtimeFilter{
		ScreenID: c.QueryParam("screen_id"),
		MovieID:  c.QueryParam("movie_id"),
	}
	if raw := c.QueryParam("start_time_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "start_time_after must be an RFC 3339 timestamp"})
		}
		f.StartTimeAfter = &t
	}
	views, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /showtimes/:id.
func (h *ShowtimeHandler) Get(c echo.Context) error {
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

// Create handles POST /showtimes.
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var in service.ShowtimeInput
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

// Update handles PATCH /showtimes/:id.
func (h *ShowtimeHandler) Update(c echo.Context) error {
	var patch service.ShowtimePatch
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

// Replace handles PUT /showtimes/:id.
func (h *ShowtimeHandler) Replace(c echo.Context) error {
	var in service.ShowtimeInput
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

// Delete handles DELETE /showtimes/:id.
func (h *ShowtimeHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), id, ifMatch(c)); err != nil {
		return writeServiceError(c, err)
	}
	return deleted(c, id)
}

// Availability handles GET /showtimes/:id/availability and reports seat
// counts against the screen's capacity.
func (h *ShowtimeHandler) Availability(c echo.Context) error {
	view, err := h.svc.Availability(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// AdjustSeats handles POST /showtimes/:id/seats. The body carries a signed
// count: positive books seats, negative releases them.
func (h *ShowtimeHandler) AdjustSeats(c echo.Context) error {
	var body struct {
		Count int `json:"count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	view, tag, err := h.svc.AdjustSeats(c.Request().Context(), c.Param("id"), body.Count)
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set("ETag", tag)
	return c.JSON(http.StatusOK, view)
}
