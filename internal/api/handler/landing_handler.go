package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LandingHandler serves the fixed redirect targets the route guard points
// denied sessions at. The paths are a stable external contract; the bodies
// are plain JSON placeholders for the console shell to replace.
type LandingHandler struct{}

func NewLandingHandler() *LandingHandler {
	return &LandingHandler{}
}

func (h *LandingHandler) Login(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"page":    "login",
		"message": "Sign in to the helpdesk console.",
	})
}

func (h *LandingHandler) Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"page":    "unauthorized",
		"message": "Your role does not grant access to this screen.",
	})
}

func (h *LandingHandler) SubscriptionRequired(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"page":    "subscription-required",
		"message": "Activate a subscription to unlock the console for your organization.",
	})
}

func (h *LandingHandler) SubscriptionExpired(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"page":    "subscription-expired",
		"message": "Your organization's subscription has lapsed. Contact your administrator.",
	})
}
