package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/fintrack/finance-tracker/docs"
	"github.com/fintrack/finance-tracker/internal/api/handler"
	"github.com/fintrack/finance-tracker/internal/api/middleware"
	"github.com/fintrack/finance-tracker/internal/core/service"
	"github.com/fintrack/finance-tracker/internal/infrastructure/config"
	mongodb "github.com/fintrack/finance-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/fintrack/finance-tracker/internal/infrastructure/db/redis"
	"github.com/fintrack/finance-tracker/internal/infrastructure/hash"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("fintrack_http"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	transactionRepo := mongodb.NewTransactionRepository(db)

	hasher := hash.NewBcryptHasher(cfg.BcryptCost)
	guard := redisdb.NewLoginGuard(rdb, cfg.LoginMaxAttempts, time.Duration(cfg.LoginWindowMinutes)*time.Minute)

	accountService := service.NewAccountService(accountRepo, hasher, log)
	authService := service.NewAuthService(accountRepo, hasher, guard, cfg.JWTSecret, 24*time.Hour, log)
	categoryService := service.NewCategoryService(categoryRepo, log)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, log)

	accountHandler := handler.NewAccountHandler(accountService)
	authHandler := handler.NewAuthHandler(accountService, authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(authService, cfg.JWTSecret))
	adminOnly := middleware.RBAC("ADMIN")

	accounts := v1.Group("/accounts")
	accounts.GET("", accountHandler.List)
	accounts.GET("/exists", accountHandler.Exists)
	accounts.GET("/username/:username", accountHandler.GetByUsername)
	accounts.GET("/role/:role", accountHandler.ListByRole, adminOnly)
	accounts.GET("/:id", accountHandler.GetByID)
	accounts.POST("", accountHandler.Create, adminOnly)
	accounts.PATCH("/:id", accountHandler.Update)
	accounts.DELETE("/:id", accountHandler.Delete, adminOnly)
	accounts.PUT("/:id/role", accountHandler.ChangeRole, adminOnly)

	categories := v1.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create)
	categories.DELETE("/:id", categoryHandler.Delete)

	transactions := v1.Group("/transactions")
	transactions.GET("", transactionHandler.List)
	transactions.POST("", transactionHandler.Create)
	transactions.GET("/:id", transactionHandler.Get)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	return e
}
