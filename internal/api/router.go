package api

import (
	"time"

	"leftover-chef/internal/api/handlers"
	favoritesHandler "leftover-chef/internal/api/handlers/favorites"
	"leftover-chef/internal/api/handlers/health"
	recipeHandler "leftover-chef/internal/api/handlers/recipe"
	"leftover-chef/internal/api/middleware"
	"leftover-chef/internal/app"
	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 45 * time.Second
	// 請求體大小預設限制 (1MB)
	defaultMaxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, a *app.App) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		handlers.RespondError(c, common.ErrNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		handlers.RespondError(c, common.ErrMethodNotAllowed)
	})

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	maxBodySize := cfg.Server.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Timeout(timeoutDuration))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, a.Search.Engine().Vocabulary.Len(), a)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由組
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	v1.Use(middleware.Deduplication(cfg.DedupWindow))
	{
		recipes := recipeHandler.NewHandler(a.Search)
		v1.POST("/recipes/search", recipes.HandleSearch)
		v1.POST("/recipes/export", recipes.HandleExport)
		v1.POST("/ingredients/validate", recipes.HandleValidate)

		favorites := favoritesHandler.NewHandler(a.Favorites, a.Source)
		v1.GET("/favorites", favorites.HandleList)
		v1.POST("/favorites", favorites.HandleAdd)
		v1.DELETE("/favorites/:id", favorites.HandleRemove)
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("version", cfg.App.Version),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router
}
