package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gilby125/weekend-trip-api/pkg/cache"
	"github.com/gilby125/weekend-trip-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CacheConfig holds cache middleware configuration
type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
	// VaryHeaders are request headers folded into the cache key.
	VaryHeaders []string
}

// bodyRecorder tees the response body so it can be stored after the handler ran
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// CachedResponse represents a cached HTTP response
type CachedResponse struct {
	StatusCode  int       `json:"status_code"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type"`
	CachedAt    time.Time `json:"cached_at"`
}

// ResponseCache caches successful JSON GET responses. Cache failures never
// fail the request.
func ResponseCache(cacheManager *cache.CacheManager, cfg CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := responseCacheKey(cfg, c.Request)
		log := logger.WithContext(ctx).WithField("cache_key", key)

		var cached CachedResponse
		err := cacheManager.GetJSON(ctx, key, &cached)
		if err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Error(err, "Cache get error")
		}

		// set before the handler writes, headers are frozen afterwards
		c.Header("X-Cache", "MISS")
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		contentType := rec.Header().Get("Content-Type")
		if status < 200 || status >= 300 || !strings.Contains(contentType, "application/json") {
			return
		}

		resp := CachedResponse{
			StatusCode:  status,
			Body:        rec.body.Bytes(),
			ContentType: contentType,
			CachedAt:    time.Now().UTC(),
		}
		if err := cacheManager.SetJSON(ctx, key, resp, cfg.TTL); err != nil {
			log.Error(err, "Cache set error")
		}
	}
}

func responseCacheKey(cfg CacheConfig, req *http.Request) string {
	var b strings.Builder
	b.WriteString(req.URL.Path)
	b.WriteByte('?')
	b.WriteString(req.URL.RawQuery)
	for _, h := range cfg.VaryHeaders {
		b.WriteByte('|')
		b.WriteString(req.Header.Get(h))
	}
	sum := sha256.Sum256([]byte(b.String()))

	key := "response:" + hex.EncodeToString(sum[:16])
	if cfg.KeyPrefix != "" {
		key = cfg.KeyPrefix + ":" + key
	}
	return key
}
