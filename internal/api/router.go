package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/accesshub/accesshub-api/internal/api/handler"
	"github.com/accesshub/accesshub-api/internal/api/middleware"
	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Activities ports.ActivityService
	Resources  ports.ResourceService
}

// Options configures the HTTP surface.
type Options struct {
	APIPrefix string
	ClientURL string
	Version   string
	// ExposeErrors adds the raw error text to 5xx bodies. Off in production.
	ExposeErrors bool
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handler.DependencyCheck
	// Registry receives the HTTP metrics. Nil means the default Prometheus registry.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger, opts.ExposeErrors)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{opts.ClientURL},
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(requestLogger(opts.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "accesshub",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	userHandler := handler.NewUserHandler(svc.Users)
	activityHandler := handler.NewActivityHandler(svc.Activities)
	resourceHandler := handler.NewResourceHandler(svc.Resources)
	healthHandler := handler.NewHealthHandler(opts.Version)
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.Checks)

	requireAuth := middleware.Auth(svc.Auth)
	optionalAuth := middleware.OptionalAuth(svc.Auth, opts.Logger)
	adminOnly := middleware.Authorize(domain.RoleAdmin)

	// --- Operational endpoints (no auth required) ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(opts.APIPrefix)

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.POST("/logout", authHandler.Logout, requireAuth)

	// --- User routes ---
	users := api.Group("/users", requireAuth)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/stats", userHandler.Stats, adminOnly)
	users.GET("/:id", userHandler.Get, middleware.SelfOrAdmin("id"))
	users.PUT("/:id", userHandler.Update, middleware.SelfOrAdmin("id"))
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Activity routes ---
	activities := api.Group("/activities", requireAuth)
	activities.GET("/me", activityHandler.Mine)
	activities.GET("", activityHandler.List, middleware.ManagerOrAdmin())
	activities.GET("/stats", activityHandler.Stats, middleware.ManagerOrAdmin())

	// --- Resource routes ---
	resources := api.Group("/resources")
	resources.GET("", resourceHandler.List, optionalAuth)
	resources.GET("/:id", resourceHandler.Get, requireAuth)
	resources.GET("/:id/download", resourceHandler.Download, requireAuth)
	resources.POST("", resourceHandler.Create, requireAuth, middleware.ManagerOrAdmin())
	resources.DELETE("/:id", resourceHandler.Delete, requireAuth, adminOnly)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
