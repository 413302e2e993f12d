package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Identity returns an Echo middleware that records who performed a write.
// The API itself is open; a Bearer token is optional. When one is supplied
// it must verify against the shared secret, and its subject claim becomes
// the actor recorded on created rows. Requests without a token pass through
// anonymously.
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" {
				return next(c)
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "malformed authorization header"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			if claims, ok := tok.Claims.(jwt.MapClaims); ok {
				if sub, ok := claims["sub"].(string); ok && sub != "" {
					c.Set("actor_id", sub)
				}
			}
			return next(c)
		}
	}
}

// ActorID returns the authenticated subject for the request, or nil when
// the request carried no token.
func ActorID(c echo.Context) *string {
	if v, ok := c.Get("actor_id").(string); ok && v != "" {
		return &v
	}
	return nil
}
