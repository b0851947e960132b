// internal/interfaces/http/handlers/user_profile.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/user"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/middleware"
)

// ProfileService is the self-service account behaviour
type ProfileService interface {
	UpdateProfile(ctx context.Context, userID uint, update user.ProfileUpdate) (*user.User, error)
	ChangePassword(ctx context.Context, userID uint, change user.PasswordChange) error
}

// UserProfileHandler handles the signed-in user's own account
type UserProfileHandler struct {
	profiles ProfileService
	logger   logrus.FieldLogger
}

// NewUserProfileHandler creates a new user profile handler
func NewUserProfileHandler(profiles ProfileService, logger logrus.FieldLogger) *UserProfileHandler {
	return &UserProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// UpdateProfile handles PUT /auth/me
func (h *UserProfileHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req user.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update profile")
		return
	}

	respondOK(c, http.StatusOK, "Profile updated successfully", profile)
}

// ChangePassword handles PUT /auth/password
func (h *UserProfileHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req user.PasswordChange
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.profiles.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, h.logger, err, "Failed to change password")
		return
	}

	h.logger.WithField("user_id", userID).Info("🔑 Password changed")

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed successfully",
	})
}
