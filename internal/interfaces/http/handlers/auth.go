// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/domain/user"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/middleware"
)

// UserService is the account behaviour the HTTP layer needs
type UserService interface {
	Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error)
	Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error)
	GetProfile(ctx context.Context, userID uint) (*user.User, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService UserService
	config      *config.Config
	logger      logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users UserService, cfg *config.Config, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		userService: users,
		config:      cfg,
		logger:      logger,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to register user")
		return
	}

	h.setSessionCookie(c, response)
	respondOK(c, http.StatusCreated, "User registered successfully", response)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to sign in")
		return
	}

	h.setSessionCookie(c, response)
	respondOK(c, http.StatusOK, "Login successful", response)
}

// Logout clears the session cookie. Bearer tokens simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.Session.CookieName, "", -1, "/", "", h.config.Session.CookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetProfile handles GET /auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve profile")
		return
	}

	respondOK(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, response *user.AuthResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.config.Session.CookieName,
		response.AccessToken,
		int(response.ExpiresIn),
		"/",
		"",
		h.config.Session.CookieSecure,
		true,
	)
}
