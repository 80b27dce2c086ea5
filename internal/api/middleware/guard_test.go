package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
	"github.com/helpdeskhq/console-gateway/internal/core/service"
)

type stubPermissionSource struct {
	perms []domain.Permission
	err   error
}

func (s *stubPermissionSource) PermissionsForRole(context.Context, string, domain.Role) ([]domain.Permission, error) {
	return s.perms, s.err
}

type stubSessionStore struct {
	sessions map[string]domain.Session
	clears   int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Load(_ context.Context, id string) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := session
	return &clone, nil
}

func (s *stubSessionStore) Save(_ context.Context, id string, session *domain.Session) error {
	s.sessions[id] = *session
	return nil
}

func (s *stubSessionStore) Clear(_ context.Context, id string) error {
	s.clears++
	delete(s.sessions, id)
	return nil
}

func (s *stubSessionStore) Subscribe(func(string, ports.SessionChange)) {}

type stubAuditSink struct {
	events []domain.AuditEvent
}

func (s *stubAuditSink) Enqueue(event domain.AuditEvent) {
	s.events = append(s.events, event)
}

const testCookie = "hdq_session"

func signedToken(t *testing.T, role domain.Role, perms []domain.Permission, paid bool, expiresAt time.Time) string {
	t.Helper()
	claims := domain.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:       "agent@example.com",
		Role:        role,
		Permissions: perms,
		Paid:        paid,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newTestGuard(source ports.PermissionSource, store ports.SessionStore, sink ports.AuditSink) *Guard {
	return NewGuard(
		service.NewTokenInspector(),
		service.NewAccessEvaluator(source, zerolog.Nop()),
		service.NewRouteGuard(),
		store,
		sink,
		testCookie,
		zerolog.Nop(),
	)
}

func invoke(t *testing.T, g *Guard, req service.GuardRequirement, build func(r *http.Request)) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	r := httptest.NewRequest(http.MethodGet, "/api/resource", nil)
	if build != nil {
		build(r)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(r, rec)

	handler := g.Protect(req)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec, c
}

func TestGuard_AllowsBearerToken(t *testing.T) {
	source := &stubPermissionSource{perms: []domain.Permission{domain.PermTicketView}}
	g := newTestGuard(source, newStubSessionStore(), &stubAuditSink{})

	token := signedToken(t, domain.RoleServiceDeskAgent, nil, true, time.Now().Add(time.Hour))
	rec, c := invoke(t, g, RequirePermissions(domain.PermTicketView), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected allow, got %d %s", rec.Code, rec.Body.String())
	}
	claims, ok := c.Get(CtxClaims).(*domain.SessionClaims)
	if !ok || claims == nil {
		t.Fatalf("claims not set on context")
	}
	if claims.Role != domain.RoleServiceDeskAgent {
		t.Fatalf("unexpected role on context: %s", claims.Role)
	}
	perms, ok := c.Get(CtxPermissions).([]domain.Permission)
	if !ok || len(perms) != 1 {
		t.Fatalf("resolved permissions not set on context: %+v", c.Get(CtxPermissions))
	}
}

func TestGuard_NoTokenRedirectsToLogin(t *testing.T) {
	g := newTestGuard(&stubPermissionSource{}, newStubSessionStore(), &stubAuditSink{})

	rec, _ := invoke(t, g, RequireSession(), nil)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != domain.PathLogin {
		t.Fatalf("expected redirect to %s, got %s", domain.PathLogin, loc)
	}
}

func TestGuard_ExpiredCookieTokenPurgesSession(t *testing.T) {
	store := newStubSessionStore()
	expired := signedToken(t, domain.RoleHR, nil, true, time.Now().Add(-time.Hour))
	store.sessions["sid-1"] = domain.Session{Token: expired}

	g := newTestGuard(&stubPermissionSource{}, store, &stubAuditSink{})

	rec, _ := invoke(t, g, RequireSession(), func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: testCookie, Value: "sid-1"})
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != domain.PathLogin {
		t.Fatalf("expected redirect to login, got %s", loc)
	}
	if _, ok := store.sessions["sid-1"]; ok {
		t.Fatalf("expired session should have been purged")
	}
}

func TestGuard_RevokedSessionForcesLogin(t *testing.T) {
	store := newStubSessionStore()
	token := signedToken(t, domain.RoleManager, nil, true, time.Now().Add(time.Hour))
	store.sessions["sid-1"] = domain.Session{Token: token}

	g := newTestGuard(&stubPermissionSource{err: domain.ErrSessionRevoked}, store, &stubAuditSink{})

	rec, _ := invoke(t, g, RequireSession(), func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: testCookie, Value: "sid-1"})
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != domain.PathLogin {
		t.Fatalf("expected redirect to login, got %s", loc)
	}
	if _, ok := store.sessions["sid-1"]; ok {
		t.Fatalf("revoked session should have been purged")
	}
}

func TestGuard_DegradedFallbackStillAllows(t *testing.T) {
	sink := &stubAuditSink{}
	source := &stubPermissionSource{err: errors.New("backend down")}
	g := newTestGuard(source, newStubSessionStore(), sink)

	token := signedToken(t, domain.RoleEmployee, []domain.Permission{domain.PermTicketCreate}, true, time.Now().Add(time.Hour))
	rec, c := invoke(t, g, RequirePermissions(domain.PermTicketCreate), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("token-embedded permissions should carry a degraded allow, got %d", rec.Code)
	}
	if flagged, _ := c.Get(CtxDegraded).(bool); !flagged {
		t.Fatalf("degraded flag not set on context")
	}
	var degraded bool
	for _, ev := range sink.events {
		if ev.Type == domain.AuditDegradedAccess {
			degraded = true
		}
	}
	if !degraded {
		t.Fatalf("degraded access not audited: %+v", sink.events)
	}
}

func TestGuard_RoleMismatchRedirectsUnauthorized(t *testing.T) {
	sink := &stubAuditSink{}
	g := newTestGuard(&stubPermissionSource{}, newStubSessionStore(), sink)

	token := signedToken(t, domain.RoleEmployee, nil, true, time.Now().Add(time.Hour))
	rec, _ := invoke(t, g, RequireRole(domain.RoleOrgAdmin), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != domain.PathUnauthorized {
		t.Fatalf("expected redirect to %s, got %s", domain.PathUnauthorized, loc)
	}
	if len(sink.events) == 0 || sink.events[len(sink.events)-1].Type != domain.AuditAccessDenied {
		t.Fatalf("denial not audited: %+v", sink.events)
	}
}

func TestGuard_UnpaidAdminGetsSubscriptionRequired(t *testing.T) {
	g := newTestGuard(&stubPermissionSource{}, newStubSessionStore(), &stubAuditSink{})

	token := signedToken(t, domain.RoleOrgAdmin, nil, false, time.Now().Add(time.Hour))
	rec, _ := invoke(t, g, RequireSession(), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	if loc := rec.Header().Get("Location"); loc != domain.PathSubscriptionRequired {
		t.Fatalf("expected redirect to %s, got %s", domain.PathSubscriptionRequired, loc)
	}
}

func TestGuard_JSONClientGetsEnvelopeInsteadOfRedirect(t *testing.T) {
	g := newTestGuard(&stubPermissionSource{}, newStubSessionStore(), &stubAuditSink{})

	rec, _ := invoke(t, g, RequireSession(), func(r *http.Request) {
		r.Header.Set("Accept", "application/json")
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for JSON client, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, domain.PathLogin) {
		t.Fatalf("expected redirect path in body, got %s", body)
	}
}
