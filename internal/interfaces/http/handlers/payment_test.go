package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/domain/payment"
	"github.com/zozagateway/snack-backend/internal/interfaces/http/middleware"
)

type stubVerifier struct {
	payload   []byte
	signature string
	err       error
}

func (v *stubVerifier) Verify(payload []byte, signature string) (payment.Event, error) {
	v.payload, v.signature = payload, signature
	if v.err != nil {
		return payment.Event{}, v.err
	}
	return payment.Event{ID: "evt_1", Type: "payment_intent.succeeded", PaymentIntentID: "pi_1"}, nil
}

type stubProcessor struct {
	events []payment.Event
	err    error
}

func (p *stubProcessor) Handle(_ context.Context, event payment.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func webhookRouter(verifier EventVerifier, processor EventHandler) *gin.Engine {
	r, _ := webhookRouterWithHook(verifier, processor)
	return r
}

func webhookRouterWithHook(verifier EventVerifier, processor EventHandler) (*gin.Engine, *test.Hook) {
	logger, hook := nullLogger()
	h := NewPaymentHandler(verifier, processor, logger)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/webhooks/stripe", h.StripeWebhook)
	return r, hook
}

func TestStripeWebhook(t *testing.T) {
	payload := []byte(`{"id":"evt_1",  "type":"payment_intent.succeeded"}`)

	t.Run("missing signature header", func(t *testing.T) {
		processor := &stubProcessor{}
		w := perform(t, webhookRouter(&stubVerifier{}, processor), request{method: http.MethodPost, path: "/webhooks/stripe", raw: payload})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, processor.events)
	})

	t.Run("invalid signature", func(t *testing.T) {
		processor := &stubProcessor{}
		verifier := &stubVerifier{err: fmt.Errorf("%w: bad", payment.ErrInvalidSignature)}
		r, hook := webhookRouterWithHook(verifier, processor)
		w := perform(t, r, request{
			method: http.MethodPost,
			path:   "/webhooks/stripe",
			raw:    payload,
			header: map[string]string{"Stripe-Signature": "t=1,v1=deadbeef", "X-Request-ID": "req-42"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid signature", decode(t, w)["error"])
		assert.Empty(t, processor.events)

		require.Len(t, hook.AllEntries(), 1)
		entry := hook.LastEntry()
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "webhook signature verification failed", entry.Message)
		assert.Equal(t, "req-42", entry.Data["request_id"])
		assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), payment.ErrInvalidSignature)
	})

	t.Run("verified event is applied", func(t *testing.T) {
		processor := &stubProcessor{}
		verifier := &stubVerifier{}
		w := perform(t, webhookRouter(verifier, processor), request{
			method: http.MethodPost,
			path:   "/webhooks/stripe",
			raw:    payload,
			header: map[string]string{"Stripe-Signature": "t=1,v1=cafe"},
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received":true}`, w.Body.String())
		assert.Equal(t, payload, verifier.payload, "body must reach the verifier byte for byte")
		assert.Equal(t, "t=1,v1=cafe", verifier.signature)
		require.Len(t, processor.events, 1)
		assert.Equal(t, "evt_1", processor.events[0].ID)
	})

	t.Run("processing failure asks for a retry", func(t *testing.T) {
		processor := &stubProcessor{err: errors.New("db down")}
		w := perform(t, webhookRouter(&stubVerifier{}, processor), request{
			method: http.MethodPost,
			path:   "/webhooks/stripe",
			raw:    payload,
			header: map[string]string{"Stripe-Signature": "t=1,v1=cafe"},
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Webhook handler failed"}`, w.Body.String())
	})
}
