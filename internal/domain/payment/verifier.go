// internal/domain/payment/verifier.go
package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Gateway event types acted upon
const (
	EventPaymentSucceeded = string(stripe.EventTypePaymentIntentSucceeded)
	EventPaymentFailed    = string(stripe.EventTypePaymentIntentPaymentFailed)
)

// ErrInvalidSignature is returned when a payload does not verify
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// Event is the part of a verified gateway event the processor needs
type Event struct {
	ID              string
	Type            string
	PaymentIntentID string
	OrderID         string
}

// Verifier authenticates a raw webhook delivery
type Verifier interface {
	Verify(payload []byte, signature string) (Event, error)
}

// StripeVerifier checks Stripe-Signature headers with the endpoint secret
type StripeVerifier struct {
	secret string
}

// NewStripeVerifier creates a verifier for one endpoint secret
func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

// Verify checks the signature and timestamp tolerance, then extracts the
// payment intent of payment_intent.* events.
func (v *StripeVerifier) Verify(payload []byte, signature string) (Event, error) {
	raw, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := Event{
		ID:   raw.ID,
		Type: string(raw.Type),
	}

	if (event.Type == EventPaymentSucceeded || event.Type == EventPaymentFailed) && raw.Data != nil {
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(raw.Data.Raw, &intent); err != nil {
			return Event{}, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		event.PaymentIntentID = intent.ID
		event.OrderID = intent.Metadata["orderId"]
	}

	return event, nil
}
