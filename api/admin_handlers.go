package api

import (
	"net/http"

	"github.com/gilby125/weekend-trip-api/db"
	"github.com/gilby125/weekend-trip-api/pkg/buildinfo"
	"github.com/gilby125/weekend-trip-api/pkg/cache"
	"github.com/gilby125/weekend-trip-api/pkg/health"
	"github.com/gilby125/weekend-trip-api/pkg/planner"
	"github.com/gilby125/weekend-trip-api/worker"
	"github.com/gin-gonic/gin"
)

// GetAdminStats reports saved search and favorite volume, today's plan cache
// state and the warmer status.
func GetAdminStats(store db.SavedSearchStore, favorites db.FavoriteStore, cm *cache.CacheManager, p *planner.Planner, w *worker.Warmer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		count, err := store.CountSavedSearches(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		favoriteCount, err := favorites.CountFavorites(ctx)
		if err != nil {
			respondError(c, err)
			return
		}

		today := p.Today()
		cacheStats := gin.H{"enabled": cm != nil}
		if cm != nil {
			warm, err := cm.Exists(ctx, cache.WeekendKey(today))
			if err != nil {
				cacheStats["error"] = err.Error()
			} else {
				cacheStats["today_warm"] = warm
			}
		}

		warmerStats := gin.H{"enabled": w != nil}
		if w != nil {
			st := w.State()
			warmerStats["leader"] = st.Leader
			warmerStats["runs"] = w.Runs()
			if !st.LastRun.IsZero() {
				warmerStats["last_run"] = st.LastRun
			}
			if st.LastErr != nil {
				warmerStats["last_error"] = st.LastErr.Error()
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"saved_searches": count,
			"favorites":      favoriteCount,
			"today":          today,
			"timezone":       p.Location().String(),
			"cache":          cacheStats,
			"warmer":         warmerStats,
			"build":          buildinfo.Info(),
		})
	}
}

// PostWarmCache runs the warmer now, regardless of leadership.
func PostWarmCache(w *worker.Warmer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if w == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache warmer is disabled"})
			return
		}
		if err := w.WarmOnce(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache warm failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "warmed", "runs": w.Runs()})
	}
}

// DeleteCache drops every cached plan and response.
func DeleteCache(cm *cache.CacheManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cm == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache is disabled"})
			return
		}
		if err := cm.Clear(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache clear failed: " + err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func healthHandler(check func(*gin.Context) health.HealthReport) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := check(c)
		status := http.StatusOK
		if report.Status == health.StatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}
