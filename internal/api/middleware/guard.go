package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/helpdeskhq/console-gateway/internal/api/metrics"
	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
	"github.com/helpdeskhq/console-gateway/internal/core/service"
)

const (
	// Context keys set for downstream handlers after an Allow decision.
	CtxClaims      = "claims"
	CtxPermissions = "permissions"
	CtxSessionID   = "session_id"
	CtxDegraded    = "permissions_degraded"

	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// Guard wires the token inspector, access evaluator and route guard into an
// echo middleware. The full decode→resolve→evaluate pipeline re-runs on every
// request; an Allow is never cached because role, permission and subscription
// state can all change between navigations.
type Guard struct {
	inspector  *service.TokenInspector
	evaluator  *service.AccessEvaluator
	guard      *service.RouteGuard
	store      ports.SessionStore
	audit      ports.AuditSink
	cookieName string
	log        zerolog.Logger
	now        func() time.Time
}

func NewGuard(
	inspector *service.TokenInspector,
	evaluator *service.AccessEvaluator,
	guard *service.RouteGuard,
	store ports.SessionStore,
	audit ports.AuditSink,
	cookieName string,
	log zerolog.Logger,
) *Guard {
	return &Guard{
		inspector:  inspector,
		evaluator:  evaluator,
		guard:      guard,
		store:      store,
		audit:      audit,
		cookieName: cookieName,
		log:        log,
		now:        time.Now,
	}
}

// Protect guards a route with the given requirement.
func (g *Guard) Protect(req service.GuardRequirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			now := g.now()

			token, sessionID := g.extractToken(c)

			var claims *domain.SessionClaims
			if token != "" {
				decoded, err := g.inspector.Decode(token)
				if err == nil && !decoded.Expired(now) {
					claims = decoded
				} else if sessionID != "" {
					// Malformed or expired stored token: purge before redirecting.
					if clearErr := g.store.Clear(ctx, sessionID); clearErr != nil {
						g.log.Error().Err(clearErr).Msg("failed to purge invalid session")
					}
					metrics.SessionsPurgedTotal.Inc()
				}
			}

			// The permission fetch is awaited before any decision: partial
			// results must never produce a premature Allow.
			var resolved []domain.Permission
			var degradedPerms bool
			if claims != nil {
				perms, degraded, err := g.evaluator.ResolvePermissions(ctx, token, claims)
				if errors.Is(err, domain.ErrSessionRevoked) {
					// Backend rejected the token mid-session: discard the
					// stale state and force re-authentication.
					if sessionID != "" {
						if clearErr := g.store.Clear(ctx, sessionID); clearErr != nil {
							g.log.Error().Err(clearErr).Msg("failed to purge revoked session")
						}
					}
					metrics.SessionsPurgedTotal.Inc()
					claims = nil
				} else {
					resolved = perms
					degradedPerms = degraded
					if degraded {
						metrics.PermissionFallbacksTotal.Inc()
						g.audit.Enqueue(domain.AuditEvent{
							Type:      domain.AuditDegradedAccess,
							SubjectID: claims.SubjectID(),
							Email:     claims.Email,
							Role:      claims.Role,
							Path:      c.Request().URL.Path,
						})
					}
				}
			}

			decision := g.guard.Evaluate(now, claims, resolved, req, service.GuardPending{})
			metrics.GuardDecisionsTotal.WithLabelValues(decision.String()).Inc()

			if decision == domain.DecisionAllow {
				c.Set(CtxClaims, claims)
				c.Set(CtxPermissions, resolved)
				c.Set(CtxSessionID, sessionID)
				c.Set(CtxDegraded, degradedPerms)
				return next(c)
			}

			return g.deny(c, claims, decision)
		}
	}
}

// extractToken prefers an explicit bearer header; otherwise it reads the
// session cookie and loads the stored token. The returned session id is empty
// for header-borne tokens, which have no stored session to purge.
func (g *Guard) extractToken(c echo.Context) (token, sessionID string) {
	header := c.Request().Header.Get(authorizationHeader)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimPrefix(header, bearerPrefix), ""
	}

	cookie, err := c.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return "", ""
	}
	sessionID = cookie.Value

	session, err := g.store.Load(c.Request().Context(), sessionID)
	if err != nil {
		return "", sessionID
	}
	return session.Token, sessionID
}

// deny records the denial and redirects. Unauthorized access is a normal,
// expected outcome; it lands in the audit trail but is not logged as an
// error. Browsers get a 302 to the fixed path; API clients get a JSON
// envelope carrying the same path.
func (g *Guard) deny(c echo.Context, claims *domain.SessionClaims, decision domain.GuardDecision) error {
	event := domain.AuditEvent{
		Type:     domain.AuditAccessDenied,
		Path:     c.Request().URL.Path,
		Decision: decision.String(),
	}
	if claims != nil {
		event.SubjectID = claims.SubjectID()
		event.Email = claims.Email
		event.Role = claims.Role
	}
	g.audit.Enqueue(event)

	redirect := decision.RedirectPath()
	if wantsJSON(c) {
		return c.JSON(denialStatus(decision), map[string]string{
			"error":    decision.String(),
			"redirect": redirect,
		})
	}
	return c.Redirect(http.StatusFound, redirect)
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), "application/json")
}

func denialStatus(decision domain.GuardDecision) int {
	switch decision {
	case domain.DecisionRedirectLogin:
		return http.StatusUnauthorized
	case domain.DecisionRedirectSubscriptionRequired, domain.DecisionRedirectSubscriptionExpired:
		return http.StatusPaymentRequired
	default:
		return http.StatusForbidden
	}
}
