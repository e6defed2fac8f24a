package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/songpeaks/api/health"
	"github.com/killallgit/songpeaks/api/types"
	"github.com/killallgit/songpeaks/api/version"
	"github.com/killallgit/songpeaks/api/videodata"
	_ "github.com/killallgit/songpeaks/docs/swagger"
	"github.com/killallgit/songpeaks/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limiters *RateLimiters, limits config.RateLimitConfig) {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Public routes, never rate limited
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler(func() {
			if deps.Cache != nil {
				deps.Metrics.SetCacheEntries(deps.Cache.Stats().Entries)
			}
		})))
	}

	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	apiGroup := engine.Group("/api")
	if limits.Enabled && limiters != nil {
		apiGroup.Use(PerClientRateLimit(limiters, limits.RPS, limits.Burst))
	}
	videodata.RegisterRoutes(apiGroup, deps)
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "The requested endpoint was not found",
			Details: gin.H{"path": c.Request.URL.Path},
		})
	}
}
