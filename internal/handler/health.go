package handler

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// healthReport is the liveness check payload. The optional echo fields let
// callers verify round-trip plumbing through proxies and load balancers.
type healthReport struct {
	Status        int     `json:"status"`
	StatusMessage string  `json:"status_message"`
	Timestamp     string  `json:"timestamp"`
	IPAddress     string  `json:"ip_address"`
	Echo          *string `json:"echo"`
	PathEcho      *string `json:"path_echo"`
}

// Health handles GET /health and GET /health/:path_echo. The ?echo= query
// parameter and the path segment are reflected back when present.
func Health(c echo.Context) error {
	var echoParam, pathEcho *string
	if v := c.QueryParam("echo"); v != "" {
		echoParam = &v
	}
	if v := c.Param("path_echo"); v != "" {
		pathEcho = &v
	}
	return c.JSON(http.StatusOK, healthReport{
		Status:        http.StatusOK,
		StatusMessage: "OK",
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		IPAddress:     hostAddress(),
		Echo:          echoParam,
		PathEcho:      pathEcho,
	})
}

// hostAddress resolves the host's first address, falling back to loopback.
func hostAddress() string {
	host, err := os.Hostname()
	if err != nil {
		return "127.0.0.1"
	}
	addrs, err := net.LookupHost(host)
	if err != nil || len(addrs) == 0 {
		return "127.0.0.1"
	}
	return addrs[0]
}
