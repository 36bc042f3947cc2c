package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gilby125/weekend-trip-api/config"
	"github.com/gilby125/weekend-trip-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

const adminRealm = `Basic realm="Weekend Trip Admin"`

// AdminAuth guards the admin routes with a bearer token or basic credentials.
// With auth disabled every request passes.
func AdminAuth(cfg config.AdminAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || authorized(c.Request, cfg) {
			c.Next()
			return
		}

		logger.WithContext(c.Request.Context()).Warn("Rejected admin request",
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP())

		c.Header("WWW-Authenticate", adminRealm)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":      "admin credentials required",
			"request_id": GetRequestID(c),
		})
	}
}

func authorized(r *http.Request, cfg config.AdminAuthConfig) bool {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && cfg.Token != "" {
		if secureEqual(token, cfg.Token) {
			return true
		}
	}
	if cfg.Username == "" || cfg.Password == "" {
		return false
	}
	user, pass, ok := r.BasicAuth()
	// Evaluate both so timing does not reveal which one matched.
	userOK := secureEqual(user, cfg.Username)
	passOK := secureEqual(pass, cfg.Password)
	return ok && userOK && passOK
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
