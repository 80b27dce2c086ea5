package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/console-gateway/internal/api/middleware"
	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

// ctxClaims extracts the session claims injected by the guard middleware and
// fast-fails before any service call: their presence proves the guard ran.
func ctxClaims(c echo.Context) (*domain.SessionClaims, error) {
	claims, _ := c.Get(middleware.CtxClaims).(*domain.SessionClaims)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// ctxPermissions returns the resolved permission set for the request. It may
// differ from the token-embedded list when the backend lookup succeeded.
func ctxPermissions(c echo.Context) []domain.Permission {
	perms, _ := c.Get(middleware.CtxPermissions).([]domain.Permission)
	return perms
}

// ctxSessionID returns the session cookie value, or "" for header-borne
// bearer tokens.
func ctxSessionID(c echo.Context) string {
	id, _ := c.Get(middleware.CtxSessionID).(string)
	return id
}

// ctxDegraded reports whether the guard fell back to the token-embedded
// permission list because the permission source was unreachable.
func ctxDegraded(c echo.Context) bool {
	degraded, _ := c.Get(middleware.CtxDegraded).(bool)
	return degraded
}
