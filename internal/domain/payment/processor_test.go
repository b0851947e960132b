package payment

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/domain/order"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

type call struct {
	method    string
	orderID   uint
	paymentID string
	eventID   string
}

type fakeOrders struct {
	calls []call
	err   error
}

func (f *fakeOrders) ConfirmPayment(_ context.Context, id uint, paymentID string, ev order.ProcessedEvent) (*order.Order, error) {
	f.calls = append(f.calls, call{"confirm", id, paymentID, ev.EventID})
	if f.err != nil {
		return nil, f.err
	}
	return &order.Order{ID: id, Status: order.StatusConfirmed, PaymentStatus: order.PaymentPaid}, nil
}

func (f *fakeOrders) FailPayment(_ context.Context, id uint, paymentID string, ev order.ProcessedEvent) (*order.Order, error) {
	f.calls = append(f.calls, call{"fail", id, paymentID, ev.EventID})
	if f.err != nil {
		return nil, f.err
	}
	return &order.Order{ID: id, Status: order.StatusPending, PaymentStatus: order.PaymentFailed}, nil
}

func newTestProcessor(orders OrderPayments) *Processor {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewProcessor(orders, logger)
}

func TestProcessor_RoutesByType(t *testing.T) {
	orders := &fakeOrders{}
	p := newTestProcessor(orders)
	ctx := context.Background()

	require.NoError(t, p.Handle(ctx, Event{ID: "evt_1", Type: EventPaymentSucceeded, PaymentIntentID: "pi_1", OrderID: "42"}))
	require.NoError(t, p.Handle(ctx, Event{ID: "evt_2", Type: EventPaymentFailed, PaymentIntentID: "pi_2", OrderID: "43"}))

	assert.Equal(t, []call{
		{"confirm", 42, "pi_1", "evt_1"},
		{"fail", 43, "pi_2", "evt_2"},
	}, orders.calls)
}

func TestProcessor_IgnoresWithoutAction(t *testing.T) {
	orders := &fakeOrders{}
	p := newTestProcessor(orders)
	ctx := context.Background()

	assert.NoError(t, p.Handle(ctx, Event{ID: "evt_1", Type: "charge.refunded"}))
	assert.NoError(t, p.Handle(ctx, Event{ID: "evt_2", Type: EventPaymentSucceeded, PaymentIntentID: "pi_1"}))
	assert.NoError(t, p.Handle(ctx, Event{ID: "evt_3", Type: EventPaymentSucceeded, OrderID: "abc"}))

	assert.Empty(t, orders.calls)
}

func TestProcessor_AcknowledgedErrors(t *testing.T) {
	for _, err := range []error{order.ErrDuplicateEvent, apperror.NotFound("order")} {
		p := newTestProcessor(&fakeOrders{err: err})

		assert.NoError(t, p.Handle(context.Background(), Event{ID: "evt_1", Type: EventPaymentSucceeded, OrderID: "1"}), err)
	}
}

func TestProcessor_InternalErrorIsReturned(t *testing.T) {
	boom := errors.New("connection reset")
	p := newTestProcessor(&fakeOrders{err: boom})

	err := p.Handle(context.Background(), Event{ID: "evt_1", Type: EventPaymentFailed, OrderID: "1"})

	assert.ErrorIs(t, err, boom)
}
