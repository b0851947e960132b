// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/order"
)

// Quoter prices a prospective order
type Quoter interface {
	Quote(ctx context.Context, req order.QuoteRequest) (*order.Quote, error)
}

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	quoter Quoter
	logger logrus.FieldLogger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(quoter Quoter, logger logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		quoter: quoter,
		logger: logger,
	}
}

// GetCheckoutSummary handles POST /checkout/quote
func (h *CheckoutHandler) GetCheckoutSummary(c *gin.Context) {
	var req order.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := h.quoter.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to calculate checkout summary")
		return
	}

	respondOK(c, http.StatusOK, "Checkout summary calculated", quote)
}
