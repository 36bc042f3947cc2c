package middleware

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gilby125/weekend-trip-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger creates a structured logging middleware for Gin
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"route":      c.FullPath(),
			"status":     statusCode,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if raw != "" {
			fields["query"] = raw
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		log := logger.WithContext(c.Request.Context()).WithFields(fields)
		switch {
		case statusCode >= 500:
			log.Error(nil, "HTTP request")
		case statusCode >= 400:
			log.Warn("HTTP request")
		default:
			log.Info("HTTP request")
		}
	}
}

// Recovery turns a handler panic into a JSON 500 carrying the request id
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		logger.WithContext(c.Request.Context()).WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"panic":  fmt.Sprint(recovered),
		}).Error(nil, "Panic recovered")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      "internal server error",
			"request_id": GetRequestID(c),
		})
	})
}
