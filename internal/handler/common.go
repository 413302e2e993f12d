package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/service"
)

// ifMatch returns the If-Match header value, or nil when the client sent
// none. The distinction matters: a missing header on a write is 428, a
// mismatched one is 412.
func ifMatch(c echo.Context) *string {
	if v := c.Request().Header.Get("If-Match"); v != "" {
		return &v
	}
	return nil
}

// ifNoneMatch reports whether the request's If-None-Match header equals the
// given entity tag.
func ifNoneMatch(c echo.Context, tag string) bool {
	v := c.Request().Header.Get("If-None-Match")
	return v != "" && v == tag
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(c echo.Context, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrPreconditionRequired):
		return c.JSON(http.StatusPreconditionRequired, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrPreconditionFailed):
		return c.JSON(http.StatusPreconditionFailed, map[string]string{"error": err.Error()})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// bindError reports a PATCH/PUT body that failed to bind. The conditional
// protocol outranks payload validity: a request without If-Match answers 428
// even when the body does not parse.
func bindError(c echo.Context) error {
	if ifMatch(c) == nil {
		return writeServiceError(c, service.ErrPreconditionRequired)
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
}

func deleted(c echo.Context, id string) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted", "id": id})
}
