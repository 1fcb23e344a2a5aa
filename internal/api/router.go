package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/rackledger/inventory/internal/api/handler"
	"github.com/rackledger/inventory/internal/api/middleware"
	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/service"
	"github.com/rackledger/inventory/internal/infrastructure/http/handlers"
)

// Services are the core services exposed over HTTP.
type Services struct {
	Auth     *service.AuthService
	Servers  *service.Resource[domain.Server]
	Domains  *service.Resource[domain.Domain]
	Projects *service.Resource[domain.Project]
	Groups   *service.Resource[domain.Group]
	Finance  *service.Resource[domain.Finance]
	Users    *service.UserService
	History  *service.HistoryService
}

// Options tunes the router.
type Options struct {
	CORSOrigins []string
	// Readiness serves GET /health/ready when set.
	Readiness *handlers.HealthDependenciesHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(log))
	e.Use(middleware.Metrics())
	if len(opts.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: opts.CORSOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	// --- Health, metrics and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	if opts.Readiness != nil {
		e.GET("/health/ready", opts.Readiness.Readiness)
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	e.POST("/api/token", authHandler.Login)
	e.POST("/api/login", authHandler.Login)

	api := e.Group("/api", middleware.Auth(svc.Auth))
	api.POST("/logout", authHandler.Logout)

	mount(api, "/servers", handler.NewServerHandler(svc.Servers), domain.PermAuthenticated, domain.PermServerCreate, domain.PermServerUpdate)
	mount(api, "/domains", handler.NewDomainHandler(svc.Domains), domain.PermAuthenticated, domain.PermDomainCreate, domain.PermDomainUpdate)
	mount(api, "/projects", handler.NewProjectHandler(svc.Projects), domain.PermAuthenticated, domain.PermProjectWrite, domain.PermProjectWrite)
	mount(api, "/groups", handler.NewGroupHandler(svc.Groups), domain.PermAuthenticated, domain.PermGroupWrite, domain.PermGroupWrite)
	mount(api, "/finance", handler.NewFinanceHandler(svc.Finance), domain.PermFinanceRead, domain.PermFinanceWrite, domain.PermFinanceWrite)
	mount(api, "/users", handler.NewUserHandler(svc.Users), domain.PermUserManage, domain.PermUserManage, domain.PermUserManage)

	historyHandler := handler.NewHistoryHandler(svc.History)
	api.GET("/history/:type/:id", historyHandler.List, middleware.RBAC(domain.PermAuthenticated))

	settingsHandler := handler.NewSettingsHandler(svc.Users)
	api.GET("/settings/me", settingsHandler.Get, middleware.RBAC(domain.PermAuthenticated))
	api.PUT("/settings/me", settingsHandler.Update, middleware.RBAC(domain.PermAuthenticated))

	return e
}

// mount registers the four collection routes with their permissions.
func mount[T any](g *echo.Group, path string, h *handler.ResourceHandler[T], read, create, update domain.Permission) {
	g.GET(path, h.List, middleware.RBAC(read))
	g.GET(path+"/:id", h.Get, middleware.RBAC(read))
	g.POST(path, h.Create, middleware.RBAC(create))
	g.PUT(path+"/:id", h.Update, middleware.RBAC(update))
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
