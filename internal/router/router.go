package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/handler"
)

// Handlers bundles the per-resource handlers the router wires up.
type Handlers struct {
	Cinemas   *handler.CinemaHandler
	Theatres  *handler.TheatreHandler
	Screens   *handler.ScreenHandler
	Showtimes *handler.ShowtimeHandler
}

// RegisterRoutes registers every route on the provided Echo instance. All
// resources share the same shape: collection list/create, item get/patch/
// put/delete. Showtimes additionally expose the availability report and the
// seat-adjustment endpoint.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", handler.Health)
	e.GET("/health/:path_echo", handler.Health)

	e.GET("/cinemas", h.Cinemas.List)
	e.POST("/cinemas", h.Cinemas.Create)
	e.GET("/cinemas/:id", h.Cinemas.Get)
	e.PATCH("/cinemas/:id", h.Cinemas.Update)
	e.PUT("/cinemas/:id", h.Cinemas.Replace)
	e.DELETE("/cinemas/:id", h.Cinemas.Delete)

	e.GET("/theatres", h.Theatres.List)
	e.POST("/theatres", h.Theatres.Create)
	e.GET("/theatres/:id", h.Theatres.Get)
	e.PATCH("/theatres/:id", h.Theatres.Update)
	e.PUT("/theatres/:id", h.Theatres.Replace)
	e.DELETE("/theatres/:id", h.Theatres.Delete)

	e.GET("/screens", h.Screens.List)
	e.POST("/screens", h.Screens.Create)
	e.GET("/screens/:id", h.Screens.Get)
	e.PATCH("/screens/:id", h.Screens.Update)
	e.PUT("/screens/:id", h.Screens.Replace)
	e.DELETE("/screens/:id", h.Screens.Delete)

	e.GET("/showtimes", h.Showtimes.List)
	e.POST("/showtimes", h.Showtimes.Create)
	e.GET("/showtimes/:id", h.Showtimes.Get)
	e.PATCH("/showtimes/:id", h.Showtimes.Update)
	e.PUT("/showtimes/:id", h.Showtimes.Replace)
	e.DELETE("/showtimes/:id", h.Showtimes.Delete)
	e.GET("/showtimes/:id/availability", h.Showtimes.Availability)
	e.POST("/showtimes/:id/seats", h.Showtimes.AdjustSeats)
}
