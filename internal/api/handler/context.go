package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/costasur/portal-clientes/internal/api/middleware"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

// ctxSession extracts the session injected by the Auth middleware. Its
// presence proves the middleware ran; a handler reached without it is a
// wiring bug surfaced as 401 rather than a panic.
func ctxSession(c echo.Context) (*ports.Session, error) {
	sess, _ := c.Get(middleware.SessionKey).(*ports.Session)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}
