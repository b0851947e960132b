package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testSecret = "whsec_test_secret"

func signedPayload(t *testing.T, body string, at time.Time) (payload []byte, header string) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(body),
		Secret:    testSecret,
		Timestamp: at,
	})
	return signed.Payload, signed.Header
}

const succeededBody = `{
  "id": "evt_1",
  "object": "event",
  "type": "payment_intent.succeeded",
  "data": {"object": {"id": "pi_123", "object": "payment_intent", "metadata": {"orderId": "42"}}}
}`

func TestStripeVerifier_ExtractsPaymentIntent(t *testing.T) {
	payload, header := signedPayload(t, succeededBody, time.Now())

	event, err := NewStripeVerifier(testSecret).Verify(payload, header)

	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.PaymentIntentID)
	assert.Equal(t, "42", event.OrderID)
}

func TestStripeVerifier_OtherEventTypes(t *testing.T) {
	body := `{"id": "evt_2", "object": "event", "type": "customer.created", "data": {"object": {"id": "cus_1", "object": "customer"}}}`
	payload, header := signedPayload(t, body, time.Now())

	event, err := NewStripeVerifier(testSecret).Verify(payload, header)

	require.NoError(t, err)
	assert.Equal(t, "customer.created", event.Type)
	assert.Empty(t, event.OrderID)
}

func TestStripeVerifier_Rejects(t *testing.T) {
	payload, header := signedPayload(t, succeededBody, time.Now())
	v := NewStripeVerifier(testSecret)

	_, err := v.Verify(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature, "bad signature")

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = ' '
	_, err = v.Verify(tampered, header)
	assert.ErrorIs(t, err, ErrInvalidSignature, "tampered body")

	_, err = NewStripeVerifier("whsec_other").Verify(payload, header)
	assert.ErrorIs(t, err, ErrInvalidSignature, "wrong secret")

	stale, staleHeader := signedPayload(t, succeededBody, time.Now().Add(-time.Hour))
	_, err = v.Verify(stale, staleHeader)
	assert.ErrorIs(t, err, ErrInvalidSignature, "outside tolerance")
}
