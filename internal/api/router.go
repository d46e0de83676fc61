package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Michelc16/catalogo-online/internal/api/handler"
	"github.com/Michelc16/catalogo-online/internal/api/middleware"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
	"github.com/Michelc16/catalogo-online/internal/core/service"
	"github.com/Michelc16/catalogo-online/internal/infrastructure/session"
)

// Deps carries everything the router needs to assemble the services and
// handlers. Cache, Redis and UploadDir may be zero when the corresponding
// feature is disabled.
type Deps struct {
	Users    ports.UserStore
	Products ports.ProductRepository
	Sessions ports.SessionStore
	Cache    ports.CategoryCache
	Images   ports.ImageStore

	// Health-check handles.
	PG    *sql.DB
	Mongo *mongo.Database
	Redis *redis.Client

	Codec     *session.CookieCodec
	BodyLimit string
	// UploadDir, when non-empty, is served as /uploads (local image store).
	UploadDir string
	Logger    zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	if deps.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(deps.BodyLimit))
	}
	e.Use(echoprometheus.NewMiddleware("catalog"))
	e.Use(middleware.Session(deps.Sessions, deps.Codec))

	// --- Services ---
	authService := service.NewAuthService(deps.Users, deps.Sessions, deps.Logger)
	adminGuard := service.NewUserAdminGuard(deps.Users, deps.Logger)
	productService := service.NewProductService(deps.Products, deps.Images, deps.Cache, deps.Logger)
	importService := service.NewImportService(deps.Products, deps.Logger)
	imageService := service.NewImageService(deps.Images, deps.Logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, deps.Codec)
	adminHandler := handler.NewAdminHandler(adminGuard)
	productHandler := handler.NewProductHandler(productService)
	uploadHandler := handler.NewUploadHandler(importService, imageService)

	requireAdmin := middleware.RequireAdmin(deps.Users)

	// --- Auth surface ---
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/login", authHandler.Login)
	e.POST("/api/logout", authHandler.Logout)
	e.GET("/api/user", authHandler.Me)

	// --- Catalog surface ---
	e.GET("/api/products", productHandler.List)
	e.GET("/api/products/:id", productHandler.Get)
	e.GET("/api/categories", productHandler.Categories)
	e.POST("/api/products", productHandler.Create, requireAdmin)
	e.PUT("/api/products/:id", productHandler.Update, requireAdmin)
	e.DELETE("/api/products/:id", productHandler.Delete, requireAdmin)
	e.POST("/api/upload", uploadHandler.Upload, requireAdmin)

	// --- Admin surface ---
	admin := e.Group("/api/admin", requireAdmin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/invite", adminHandler.InviteAdmin)
	admin.POST("/users/:id/promote", adminHandler.Promote)
	admin.POST("/users/:id/demote", adminHandler.Demote)
	admin.POST("/users/:id/toggle-active", adminHandler.ToggleActive)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	// --- Local image serving ---
	if deps.UploadDir != "" {
		e.Static("/uploads", deps.UploadDir)
	}

	// --- Probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.PG, deps.Mongo, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
