package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/settings"
)

// SettingsHandler handles the store settings endpoints
type SettingsHandler struct {
	settingsService *settings.Service
	logger          logrus.FieldLogger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service *settings.Service, logger logrus.FieldLogger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: service,
		logger:          logger,
	}
}

// GetSettings handles GET /admin/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	current, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve settings")
		return
	}

	respondOK(c, http.StatusOK, "Settings retrieved successfully", current)
}

// UpdateSettings handles PUT /admin/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req settings.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.settingsService.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update settings")
		return
	}

	respondOK(c, http.StatusOK, "Settings updated successfully", updated)
}
