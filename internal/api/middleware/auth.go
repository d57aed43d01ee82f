package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

// SessionKey is the echo context key the resolved session is stored under.
const SessionKey = "session"

// SessionResolver validates a portal token and loads its session.
type SessionResolver interface {
	Resolve(ctx context.Context, portalToken string) (*ports.Session, error)
}

// Auth validates the bearer token, resolves the session (revalidating the
// backend token in the process) and injects it into the request context.
func Auth(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			sess, err := resolver.Resolve(c.Request().Context(), parts[1])
			if err != nil {
				// Expired or revoked tokens degrade to signed-out, never 500.
				return domain.ErrNotAuthenticated
			}

			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}

// RequirePasswordChanged gates routes while the session carries the
// mandatory-password-change flag. Only the change-password flow (and logout)
// stays reachable until the flag clears.
func RequirePasswordChanged() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get(SessionKey).(*ports.Session)
			if sess != nil && sess.MustChangePassword {
				return domain.ErrPasswordChangeRequired
			}
			return next(c)
		}
	}
}
