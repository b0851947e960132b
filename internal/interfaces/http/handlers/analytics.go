// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/analytics"
)

// AnalyticsHandler handles analytics endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	logger           logrus.FieldLogger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *analytics.Service, logger logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: service,
		logger:           logger,
	}
}

// GetDashboard handles GET /admin/analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve dashboard statistics")
		return
	}

	respondOK(c, http.StatusOK, "Dashboard statistics retrieved successfully", stats)
}

// GetSales handles GET /admin/analytics/sales?period=7d|30d|90d|12m
func (h *AnalyticsHandler) GetSales(c *gin.Context) {
	sales, err := h.analyticsService.GetSalesAnalytics(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve sales analytics")
		return
	}

	respondOK(c, http.StatusOK, "Sales analytics retrieved successfully", sales)
}
