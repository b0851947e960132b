// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/product"
)

// StockService is the stock behaviour the admin inventory screen needs
type StockService interface {
	LowStock(ctx context.Context, threshold int) ([]product.Product, error)
	AdjustStock(ctx context.Context, id uint, delta int) (*product.Product, error)
}

// ThresholdSource supplies the configured low-stock threshold
type ThresholdSource interface {
	LowStockThreshold(ctx context.Context) int
}

// InventoryHandler handles inventory endpoints
type InventoryHandler struct {
	stock     StockService
	threshold ThresholdSource
	logger    logrus.FieldLogger
}

// StockAdjustmentRequest moves stock up or down
type StockAdjustmentRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(stock StockService, threshold ThresholdSource, logger logrus.FieldLogger) *InventoryHandler {
	return &InventoryHandler{
		stock:     stock,
		threshold: threshold,
		logger:    logger,
	}
}

// GetLowStock handles GET /admin/inventory/low-stock
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	var query struct {
		Threshold *int `form:"threshold"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	threshold := h.threshold.LowStockThreshold(c.Request.Context())
	if query.Threshold != nil {
		if *query.Threshold < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Threshold cannot be negative",
			})
			return
		}
		threshold = *query.Threshold
	}

	products, err := h.stock.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve low stock products")
		return
	}

	respondOK(c, http.StatusOK, "Low stock products retrieved successfully", gin.H{
		"threshold": threshold,
		"products":  products,
	})
}

// AdjustStock handles POST /admin/inventory/:id/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.stock.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondError(c, h.logger, err, "Failed to adjust stock")
		return
	}

	actor, _ := c.Get("user_id")
	h.logger.WithFields(logrus.Fields{
		"product_id": id,
		"delta":      req.Delta,
		"reason":     req.Reason,
		"admin_id":   actor,
		"stock":      updated.Stock,
	}).Info("📦 Stock adjusted")

	respondOK(c, http.StatusOK, "Stock adjusted successfully", updated)
}
