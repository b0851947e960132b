// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zozagateway/snack-backend/internal/config"
)

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
// Credentials are only allowed for listed origins since the session
// travels in a cookie.
func CORS(cfg *config.Config) gin.HandlerFunc {
	methods := strings.Join(cfg.Security.CORSAllowedMethods, ", ")
	headers := strings.Join(cfg.Security.CORSAllowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		c.Header("Vary", "Origin")

		if origin != "" && isOriginAllowed(origin, cfg.Security.CORSAllowedOrigins) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Expose-Headers", RequestIDHeader)
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		// *.example.com matches https://shop.example.com
		if strings.HasPrefix(allowed, "*.") {
			if strings.HasSuffix(origin, allowed[1:]) {
				return true
			}
		}
	}
	return false
}
