package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/minimarket/storefront/docs"
	"github.com/minimarket/storefront/internal/api/handler"
	"github.com/minimarket/storefront/internal/api/middleware"
	"github.com/minimarket/storefront/internal/core/domain"
	"github.com/minimarket/storefront/internal/core/ports"
	"github.com/minimarket/storefront/internal/core/service"
)

// RouterConfig carries the injected stores and settings the router wires
// into services and handlers.
type RouterConfig struct {
	Users    ports.UserRepository
	Products ports.ProductRepository
	Orders   ports.OrderRepository
	Sessions ports.SessionStore

	JWTSecret  string
	TokenTTL   time.Duration
	SessionTTL time.Duration

	// Optional external handles, for the readiness probe only. Nil when
	// the in-memory backends are active.
	Mongo *mongo.Database
	Redis *redis.Client

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Services ---
	authService := service.NewAuthService(cfg.Users, cfg.JWTSecret, cfg.TokenTTL, cfg.Logger)
	catalogService := service.NewCatalogService(cfg.Products)
	cartService := service.NewCartService(cfg.Products, cfg.Logger)
	checkoutService := service.NewCheckoutService(cfg.Products, cfg.Orders, cfg.Logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, cfg.Sessions, cfg.SessionTTL)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(checkoutService)
	adminHandler := handler.NewAdminHandler(authService)

	auth := middleware.Auth(authService, cfg.Sessions)
	apiAuth := middleware.APIAuth(authService)

	// --- Auth routes ---
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/api/login", authHandler.APILogin)
	e.GET("/api/verify-token", authHandler.VerifyToken, apiAuth)

	// --- Public catalog ---
	e.GET("/api/products", catalogHandler.List)
	e.GET("/api/products/:id", catalogHandler.Get)

	// --- Protected storefront (bearer token or session slot) ---
	shop := e.Group("", auth)
	shop.GET("/shop", catalogHandler.List)
	shop.POST("/cart/add", cartHandler.Add)
	shop.POST("/cart/build", cartHandler.Build)
	shop.POST("/cart/decode", cartHandler.Decode)
	shop.POST("/checkout", orderHandler.Checkout)
	shop.GET("/order/:id", orderHandler.Get)
	shop.GET("/orders", orderHandler.List)

	// --- Admin (API-only, role-gated) ---
	admin := e.Group("/api/admin", apiAuth, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/users", adminHandler.Users)

	// --- Ops ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
