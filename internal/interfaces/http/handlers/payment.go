// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/payment"
)

const stripeSignatureHeader = "Stripe-Signature"

// EventVerifier authenticates a raw webhook payload
type EventVerifier interface {
	Verify(payload []byte, signature string) (payment.Event, error)
}

// EventHandler applies a verified webhook event
type EventHandler interface {
	Handle(ctx context.Context, event payment.Event) error
}

// PaymentHandler receives payment gateway webhooks
type PaymentHandler struct {
	verifier  EventVerifier
	processor EventHandler
	logger    logrus.FieldLogger
}

// NewPaymentHandler creates a new payment webhook handler
func NewPaymentHandler(verifier EventVerifier, processor EventHandler, logger logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{
		verifier:  verifier,
		processor: processor,
		logger:    logger,
	}
}

// StripeWebhook handles POST /webhooks/stripe
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	signature := c.GetHeader(stripeSignatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing stripe-signature header",
		})
		return
	}

	// the signature covers the exact bytes, so the body is never re-encoded
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	event, err := h.verifier.Verify(body, signature)
	if err != nil {
		msg := "webhook payload rejected"
		if errors.Is(err, payment.ErrInvalidSignature) {
			msg = "webhook signature verification failed"
		}
		h.logger.WithError(err).WithField("request_id", c.GetString("request_id")).Warn(msg)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid signature",
		})
		return
	}

	if err := h.processor.Handle(c.Request.Context(), event); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
		}).Error("webhook handler failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Webhook handler failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": true,
	})
}
