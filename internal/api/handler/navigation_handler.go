package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/service"
)

// NavigationHandler serves the role-derived navigation surface: menu tree,
// quick actions and default landing page.
type NavigationHandler struct {
	nav *service.NavigationDeriver
}

func NewNavigationHandler(nav *service.NavigationDeriver) *NavigationHandler {
	return &NavigationHandler{nav: nav}
}

// Navigation returns the menu items visible to the session's role, in
// declaration order.
//
// @Summary      Navigation menu for the current role
// @Tags         navigation
// @Produce      json
// @Success      200  {array}  domain.NavItem
// @Router       /api/navigation [get]
func (h *NavigationHandler) Navigation(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.nav.NavigationFor(claims.Role))
}

// QuickActions returns the role's shortcut list, empty if none are defined.
//
// @Summary      Quick actions for the current role
// @Tags         navigation
// @Produce      json
// @Success      200  {array}  domain.QuickAction
// @Router       /api/quick-actions [get]
func (h *NavigationHandler) QuickActions(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	actions := h.nav.QuickActionsFor(claims.Role)
	if actions == nil {
		actions = []domain.QuickAction{}
	}
	return c.JSON(http.StatusOK, actions)
}

// DefaultDashboard returns the role's landing page path.
//
// @Summary      Default dashboard for the current role
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/dashboard/default [get]
func (h *NavigationHandler) DefaultDashboard(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"path": h.nav.DefaultDashboardFor(claims.Role),
	})
}

// CheckPath reports whether the session's role may open an arbitrary path.
// Unknown paths are denied by default.
//
// @Summary      Check access to a navigation path
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  true  "Navigation path"
// @Success      200   {object}  map[string]bool
// @Router       /api/navigation/check [get]
func (h *NavigationHandler) CheckPath(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	path := c.QueryParam("path")
	return c.JSON(http.StatusOK, map[string]bool{
		"allowed": h.nav.HasAccessToPath(claims.Role, path),
	})
}
