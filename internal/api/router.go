package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/helpdeskhq/console-gateway/docs"
	"github.com/helpdeskhq/console-gateway/internal/api/handler"
	"github.com/helpdeskhq/console-gateway/internal/api/middleware"
	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
	"github.com/helpdeskhq/console-gateway/internal/core/service"
	"github.com/helpdeskhq/console-gateway/internal/infrastructure/backend"
	"github.com/helpdeskhq/console-gateway/internal/infrastructure/config"
	"github.com/helpdeskhq/console-gateway/internal/infrastructure/db/memory"
	mongodb "github.com/helpdeskhq/console-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/helpdeskhq/console-gateway/internal/infrastructure/db/redis"
	healthhandlers "github.com/helpdeskhq/console-gateway/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is passed in (not built here) because its worker lifecycle
// belongs to main.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("console_gateway"))

	// --- Core services ---
	inspector := service.NewTokenInspector()
	permSource := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	evaluator := service.NewAccessEvaluator(permSource, log)
	routeGuard := service.NewRouteGuard()
	nav := service.NewNavigationDeriver()

	// Without Redis (dev mode) sessions live in process memory only.
	var store ports.SessionStore
	if rdb != nil {
		store = redisdb.NewSessionStore(rdb, cfg.Session.TTL)
	} else {
		store = memory.NewSessionStore()
	}
	store.Subscribe(func(sessionID string, change ports.SessionChange) {
		log.Debug().Str("session_id", sessionID).Str("change", change.String()).Msg("session changed")
	})
	sessions := service.NewSessionService(store, inspector, audit, log)

	userRepo := mongodb.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	auditRepo := mongodb.NewAuditRepository(db)

	guard := middleware.NewGuard(inspector, evaluator, routeGuard, store, audit, cfg.Session.CookieName, log)

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(authService, sessions, nav, cfg.Session.CookieName, cfg.Session.TTL)
	navHandler := handler.NewNavigationHandler(nav)
	adminHandler := handler.NewAdminHandler(auditRepo)
	landing := handler.NewLandingHandler()

	// --- Auth & session (public) ---
	e.POST("/auth/register", sessionHandler.Register)
	e.POST("/auth/login", sessionHandler.Login)
	e.GET("/session/bootstrap", sessionHandler.Bootstrap)

	// --- Guard redirect targets (stable external contract) ---
	e.GET(domain.PathLogin, landing.Login)
	e.GET(domain.PathUnauthorized, landing.Unauthorized)
	e.GET(domain.PathSubscriptionRequired, landing.SubscriptionRequired)
	e.GET(domain.PathSubscriptionExpired, landing.SubscriptionExpired)

	// --- Guarded console APIs ---
	authed := guard.Protect(middleware.RequireSession())
	e.POST("/auth/logout", sessionHandler.Logout, authed)
	e.GET("/api/session", sessionHandler.Current, authed)
	e.GET("/api/navigation", navHandler.Navigation, authed)
	e.GET("/api/quick-actions", navHandler.QuickActions, authed)
	e.GET("/api/dashboard/default", navHandler.DefaultDashboard, authed)
	e.GET("/api/navigation/check", navHandler.CheckPath, authed)

	e.GET("/api/admin/audit", adminHandler.AuditEvents, guard.Protect(middleware.And(
		middleware.RequireRole(domain.RoleOrgAdmin),
		middleware.RequirePermissions(domain.PermAuditView),
	)))

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
