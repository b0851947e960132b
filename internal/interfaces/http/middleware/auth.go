// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/pkg/auth"
)

const claimsKey = "session_claims"

// TokenValidator parses session tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// Authenticate resolves the session from the Authorization header or the
// session cookie. It never aborts; a missing or bad token leaves the
// request anonymous.
func Authenticate(cfg *config.Config, tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			if cookie, err := c.Cookie(cfg.Session.CookieName); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set(claimsKey, claims)
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("is_admin", claims.IsAdmin())

		c.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ClaimsFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin ensures the session belongs to an admin
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ClaimsFromContext returns the session claims set by Authenticate
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok && claims != nil
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// IsAdminFromContext checks if user is admin from gin context
func IsAdminFromContext(c *gin.Context) bool {
	claims, ok := ClaimsFromContext(c)
	return ok && claims.IsAdmin()
}
