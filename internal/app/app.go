package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/oneview/server/cmd/server/docs" // swagger docs
	"github.com/oneview/server/internal/shared/config"
	"github.com/oneview/server/internal/shared/middleware"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// App represents the application.
type App struct {
	deps    *Dependencies
	cleanup func()
	router  *gin.Engine
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize dependencies: %w", err)
	}

	if cfg.Auth.SeedUsers {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := deps.UserService.SeedDefaults(ctx)
		cancel()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("seed users: %w", err)
		}
	}

	deps.ZapLogger.Info("application initialized",
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("address", cfg.Server.Address),
	)

	return &App{
		deps:    deps,
		cleanup: cleanup,
		router:  NewRouter(deps),
	}, nil
}

// NewRouter creates and configures the Gin router.
func NewRouter(deps *Dependencies) *gin.Engine {
	if deps.Config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.CORS(corsConfig(deps.Config.CORS)))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	registerRoutes(r, deps)
	return r
}

func corsConfig(cfg config.CORSConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.AllowOrigins) > 0 {
		c.AllowOrigins = cfg.AllowOrigins
	}
	c.AllowCredentials = cfg.AllowCredentials
	return c
}

// registerRoutes registers all API routes.
func registerRoutes(r *gin.Engine, deps *Dependencies) {
	api := r.Group("/api")

	api.GET("/health", health)

	// Public routes
	deps.UserHandler.RegisterRoutes(api)
	deps.KPIHandler.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(deps.JWT, deps.Metrics))
	{
		deps.UserHandler.RegisterProtectedRoutes(protected)
		deps.KPIHandler.RegisterProtectedRoutes(protected)
	}
}

// health reports liveness.
//
//	@Summary	Health check
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// Router returns the Gin router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop gracefully stops the application.
func (a *App) Stop() {
	if a.cleanup != nil {
		a.cleanup()
	}
}
