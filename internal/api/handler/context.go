package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recibos/billing-system/internal/api/middleware"
)

// sessionKey extracts the session key injected by the Auth middleware.
// Its presence proves the middleware ran; an empty value means the route was
// wired outside the authenticated group, which is a 401 for the caller either
// way.
func sessionKey(c echo.Context) (string, error) {
	key, _ := c.Get(middleware.ContextKey).(string)
	if key == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session key")
	}
	return key, nil
}
