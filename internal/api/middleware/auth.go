package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKey is the echo context key the session key is stored under.
const ContextKey = "session_key"

// Auth extracts the opaque session key from the Authorization header and
// injects it into context. It does not resolve the key — tier checks happen
// per-operation in the core, against the configured matrix — but a request
// with no key at all is rejected here, before any domain logic runs.
func Auth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			c.Set(ContextKey, parts[1])
			return next(c)
		}
	}
}
