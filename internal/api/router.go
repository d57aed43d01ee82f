package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/costasur/portal-clientes/internal/api/handler"
	"github.com/costasur/portal-clientes/internal/api/middleware"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

// Dependencies bundles everything the router needs wired in.
type Dependencies struct {
	Sessions  ports.SessionService
	Resolver  middleware.SessionResolver
	Obras     ports.ObraService
	Consultas ports.ConsultaService
	Mongo     *mongo.Database
	Redis     *redis.Client
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("portal"))

	authMw := middleware.Auth(deps.Resolver)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMw)
	e.GET("/auth/me", authHandler.Me, authMw)
	e.POST("/auth/change-password", authHandler.ChangePassword, authMw)

	// --- Portal routes: blocked until a mandatory password change clears ---
	v1 := e.Group("/v1", authMw, middleware.RequirePasswordChanged())

	obraHandler := handler.NewObraHandler(deps.Obras)
	v1.GET("/obras", obraHandler.List)
	v1.GET("/obras/:documentId", obraHandler.Get)
	v1.GET("/obras/:documentId/departamentos", obraHandler.ListDepartamentos)

	consultaHandler := handler.NewConsultaHandler(deps.Consultas)
	v1.POST("/consultas", consultaHandler.Create)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
