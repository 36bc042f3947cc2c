package api

import (
	"github.com/gilby125/weekend-trip-api/config"
	"github.com/gilby125/weekend-trip-api/db"
	"github.com/gilby125/weekend-trip-api/pkg/cache"
	"github.com/gilby125/weekend-trip-api/pkg/health"
	"github.com/gilby125/weekend-trip-api/pkg/middleware"
	"github.com/gilby125/weekend-trip-api/pkg/planner"
	"github.com/gilby125/weekend-trip-api/worker"
	"github.com/gin-gonic/gin"
)

// Deps are the services the routes need. Cache and Warmer may be nil when
// disabled.
type Deps struct {
	Config    *config.Config
	Planner   *planner.Planner
	Store     db.SavedSearchStore
	Favorites db.FavoriteStore
	Cache     *cache.CacheManager
	Health    *health.HealthChecker
	Warmer    *worker.Warmer
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, d Deps) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())

	router.GET("/health", healthHandler(func(c *gin.Context) health.HealthReport {
		return d.Health.CheckHealth(c.Request.Context())
	}))
	router.GET("/health/live", healthHandler(func(c *gin.Context) health.HealthReport {
		return d.Health.CheckLiveness(c.Request.Context())
	}))
	router.GET("/health/ready", healthHandler(func(c *gin.Context) health.HealthReport {
		return d.Health.CheckReadiness(c.Request.Context())
	}))

	v1 := router.Group("/api/v1")
	{
		dates := v1.Group("/dates")
		{
			dates.GET("/weekend", GetWeekend(d.Planner))
			dates.POST("/presets", PostPresetPlan(d.Planner))
		}

		catalog := []gin.HandlerFunc{GetPresetCatalog()}
		if d.Cache != nil {
			catalog = append([]gin.HandlerFunc{middleware.ResponseCache(d.Cache, middleware.CacheConfig{
				TTL:         d.Config.CacheConfig.CatalogTTL,
				VaryHeaders: []string{"Accept-Language"},
			})}, catalog...)
		}
		v1.GET("/presets", catalog...)

		searches := v1.Group("/searches")
		{
			searches.POST("", CreateSavedSearch(d.Store, d.Planner))
			searches.GET("", ListSavedSearches(d.Store))
			searches.GET("/:id", GetSavedSearch(d.Store, d.Planner))
			searches.DELETE("/:id", DeleteSavedSearch(d.Store))
		}

		favorites := v1.Group("/favorites")
		{
			favorites.POST("", CreateFavorite(d.Favorites))
			favorites.GET("", ListFavorites(d.Favorites))
			favorites.GET("/:id", GetFavorite(d.Favorites))
			favorites.DELETE("/:id", DeleteFavorite(d.Favorites))
		}

		admin := v1.Group("/admin", middleware.AdminAuth(d.Config.AdminAuthConfig))
		{
			admin.GET("/stats", GetAdminStats(d.Store, d.Favorites, d.Cache, d.Planner, d.Warmer))
			admin.POST("/cache/warm", PostWarmCache(d.Warmer))
			admin.DELETE("/cache", DeleteCache(d.Cache))
		}
	}
}
