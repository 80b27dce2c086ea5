package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/console-gateway/internal/core/ports"
)

// AdminHandler serves organization-admin screens backed by the audit trail.
type AdminHandler struct {
	audit ports.AuditRepository
}

func NewAdminHandler(audit ports.AuditRepository) *AdminHandler {
	return &AdminHandler{audit: audit}
}

// AuditEvents lists recent audit events, newest first.
//
// @Summary      Recent audit events
// @Tags         admin
// @Produce      json
// @Param        limit  query    int  false  "Maximum number of events (default 50)"
// @Success      200    {array}  domain.AuditEvent
// @Router       /api/admin/audit [get]
func (h *AdminHandler) AuditEvents(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.audit.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
