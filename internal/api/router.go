package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/micellaneous/accounts-api/internal/api/handler"
	"github.com/micellaneous/accounts-api/internal/api/middleware"
	"github.com/micellaneous/accounts-api/internal/core/domain"
	"github.com/micellaneous/accounts-api/internal/core/ports"
)

// Deps bundles everything the router needs; the caller owns construction and
// lifecycle of each collaborator.
type Deps struct {
	Users    ports.UserService
	Tokens   ports.TokenService
	UserRepo ports.UserRepository
	Limiter  ports.LoginLimiter
	Audit    ports.Auditor
	Mongo    *mongo.Database
	Redis    *redis.Client
	Version  string
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// Identity resolution runs on every request; a bad token only means the
	// request stays anonymous. The liveness re-check then drops identities
	// whose account is no longer valid.
	e.Use(middleware.Authenticate(d.Tokens, d.UserRepo))
	e.Use(middleware.RequireLiveAccount())

	adminOnly := middleware.RequireRoles(domain.RoleAdministrator)
	authenticated := middleware.RequireAuthenticated()

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Users, d.Tokens, d.Limiter, d.Audit)
	userHandler := handler.NewUserHandler(d.Users, d.Audit)
	aliveHandler := handler.NewAliveHandler(d.Version)

	// --- Auth routes ---
	login := e.Group("/api/v1/login")
	login.POST("", authHandler.Login)
	login.POST("/token", authHandler.ValidateToken)

	// --- User routes ---
	users := e.Group("/api/v1/users")
	users.GET("/page/:page/size/:size", userHandler.List, adminOnly)
	users.POST("", userHandler.Create, adminOnly)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.PATCH("/:id/active/:active", userHandler.SetActive, adminOnly)
	users.GET("/me", userHandler.Me, authenticated)
	users.PATCH("/me/password", userHandler.ChangeMyPassword, authenticated)
	users.GET("/:id", userHandler.Get, authenticated)

	// --- Alive routes ---
	alive := e.Group("/api/v1/alive")
	alive.GET("", aliveHandler.Alive)
	alive.GET("/me", aliveHandler.WhoAmI, authenticated)
	alive.GET("/me/admin", aliveHandler.AmIAdmin, authenticated)
	alive.GET("/secret", aliveHandler.Secret, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness) // liveness – is the process alive?
	if d.Mongo != nil && d.Redis != nil {
		readiness := handler.NewReadinessHandler(d.Mongo, d.Redis)
		e.GET("/health/ready", readiness.Readiness) // readiness – are dependencies up?
	}

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
