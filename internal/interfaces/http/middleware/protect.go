// internal/interfaces/http/middleware/protect.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zozagateway/snack-backend/internal/config"
)

const apiPrefix = "/api/v1"

// RouteProtection guards the configured path prefixes. It runs after
// Authenticate. Browsers are sent to the sign-in page with a callback,
// API clients get 401.
func RouteProtection(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !isProtected(path, cfg.Session.ProtectedPrefix) {
			c.Next()
			return
		}
		if _, ok := ClaimsFromContext(c); ok {
			c.Next()
			return
		}

		if wantsHTML(c.GetHeader("Accept")) {
			target := cfg.Session.SignInURL + "?callbackUrl=" + url.QueryEscape(path)
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		c.Abort()
	}
}

func isProtected(path string, prefixes []string) bool {
	trimmed := strings.TrimPrefix(path, apiPrefix)
	if trimmed == "" {
		trimmed = "/"
	}
	for _, prefix := range prefixes {
		if matchesPrefix(path, prefix) || matchesPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// matchesPrefix matches whole path segments, so /orders guards /orders/5
// but not /ordersfeed.
func matchesPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func wantsHTML(accept string) bool {
	return strings.Contains(strings.ToLower(accept), "text/html")
}
