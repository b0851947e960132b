// internal/domain/payment/processor.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/order"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

// OrderPayments applies payment outcomes to orders
type OrderPayments interface {
	ConfirmPayment(ctx context.Context, id uint, paymentID string, event order.ProcessedEvent) (*order.Order, error)
	FailPayment(ctx context.Context, id uint, paymentID string, event order.ProcessedEvent) (*order.Order, error)
}

// Processor applies verified webhook events
type Processor struct {
	orders OrderPayments
	logger logrus.FieldLogger
}

// NewProcessor creates a webhook event processor
func NewProcessor(orders OrderPayments, logger logrus.FieldLogger) *Processor {
	return &Processor{
		orders: orders,
		logger: logger,
	}
}

// Handle applies one event. It returns an error only for failures the
// gateway should retry; ignored, replayed and orphaned events return nil.
func (p *Processor) Handle(ctx context.Context, event Event) error {
	log := p.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	var apply func(context.Context, uint, string, order.ProcessedEvent) (*order.Order, error)
	switch event.Type {
	case EventPaymentSucceeded:
		apply = p.orders.ConfirmPayment
	case EventPaymentFailed:
		apply = p.orders.FailPayment
	default:
		log.Info("unhandled webhook event type")
		return nil
	}

	if event.OrderID == "" {
		log.Warn("payment event has no order reference")
		return nil
	}
	orderID, err := strconv.ParseUint(event.OrderID, 10, 64)
	if err != nil {
		log.WithField("order_ref", event.OrderID).Warn("payment event has a malformed order reference")
		return nil
	}

	log = log.WithFields(logrus.Fields{
		"order_id":   orderID,
		"payment_id": event.PaymentIntentID,
	})

	o, err := apply(ctx, uint(orderID), event.PaymentIntentID, order.ProcessedEvent{
		EventID:   event.ID,
		EventType: event.Type,
	})
	switch {
	case errors.Is(err, order.ErrDuplicateEvent):
		log.Info("payment event already processed")
		return nil
	case errors.Is(err, apperror.ErrNotFound):
		log.Warn("payment event references an unknown order")
		return nil
	case err != nil:
		return fmt.Errorf("failed to apply payment event %s: %w", event.ID, err)
	}

	log.WithFields(logrus.Fields{
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
	}).Info("payment event applied")
	return nil
}
