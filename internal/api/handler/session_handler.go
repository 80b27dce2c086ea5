package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/console-gateway/internal/api/metrics"
	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
	"github.com/helpdeskhq/console-gateway/internal/core/service"
)

// SessionHandler exposes login, logout, session bootstrap and the
// current-session view.
type SessionHandler struct {
	auth       ports.AuthService
	sessions   *service.SessionService
	nav        *service.NavigationDeriver
	cookieName string
	cookieTTL  time.Duration
}

func NewSessionHandler(auth ports.AuthService, sessions *service.SessionService, nav *service.NavigationDeriver, cookieName string, cookieTTL time.Duration) *SessionHandler {
	return &SessionHandler{
		auth:       auth,
		sessions:   sessions,
		nav:        nav,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
	}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" validate:"required"`
	Paid        bool   `json:"paid"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token   string              `json:"token,omitempty"`
	User    domain.UserSnapshot `json:"user"`
	Landing string              `json:"landing"`
}

// Register creates a local console operator account.
//
// @Summary      Register a console operator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Operator details"
// @Success      201   {object}  domain.UserSnapshot
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, req.DisplayName, domain.Role(req.Role), req.Paid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user.Snapshot())
}

// Login authenticates an operator, establishes the session and sets the
// session cookie.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	if err := h.sessions.Establish(c.Request().Context(), sessionID, token, user.Snapshot()); err != nil {
		return err
	}
	metrics.SessionsEstablishedTotal.WithLabelValues("login").Inc()
	h.setSessionCookie(c, sessionID)

	return c.JSON(http.StatusOK, sessionResponse{
		Token:   token,
		User:    user.Snapshot(),
		Landing: h.nav.DefaultDashboardFor(user.Role),
	})
}

// Logout tears the session down and expires the cookie.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /auth/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if sessionID := ctxSessionID(c); sessionID != "" {
		snapshot := domain.UserSnapshot{ID: claims.SubjectID(), Email: claims.Email, Role: claims.Role}
		if err := h.sessions.Terminate(c.Request().Context(), sessionID, snapshot); err != nil {
			return err
		}
	}
	h.expireSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Bootstrap resolves the session at console start. It accepts the optional
// cross-application handoff parameters (token, email); a handoff token is
// adopted only when no valid session is already stored.
//
// @Summary      Bootstrap the console session
// @Tags         session
// @Produce      json
// @Param        token  query     string  false  "Handoff token"
// @Param        email  query     string  false  "Handoff email"
// @Success      200    {object}  sessionResponse
// @Failure      401    {object}  map[string]string
// @Router       /session/bootstrap [get]
func (h *SessionHandler) Bootstrap(c echo.Context) error {
	sessionID := h.sessionIDFromCookie(c)
	fresh := sessionID == ""
	if fresh {
		sessionID = uuid.NewString()
	}

	handoffToken := c.QueryParam("token")
	handoffEmail := c.QueryParam("email")

	session, err := h.sessions.Bootstrap(c.Request().Context(), sessionID, handoffToken, handoffEmail)
	if err != nil {
		h.expireSessionCookie(c)
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":    "no session",
			"redirect": domain.PathLogin,
		})
	}

	if handoffToken != "" && session.Token == handoffToken {
		metrics.SessionsEstablishedTotal.WithLabelValues("handoff").Inc()
	}
	if fresh {
		h.setSessionCookie(c, sessionID)
	}

	return c.JSON(http.StatusOK, sessionResponse{
		User:    session.User,
		Landing: h.nav.DefaultDashboardFor(session.User.Role),
	})
}

// Current returns the guard-validated session view.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user": domain.UserSnapshot{
			ID:    claims.SubjectID(),
			Email: claims.Email,
			Role:  claims.Role,
		},
		"permissions": ctxPermissions(c),
		"paid":        claims.Paid,
		"landing":     h.nav.DefaultDashboardFor(claims.Role),
		"degraded":    ctxDegraded(c),
	})
}

func (h *SessionHandler) sessionIDFromCookie(c echo.Context) string {
	cookie, err := c.Cookie(h.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *SessionHandler) setSessionCookie(c echo.Context, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.cookieTTL),
	})
}

func (h *SessionHandler) expireSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
