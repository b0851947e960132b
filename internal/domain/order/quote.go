package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zozagateway/snack-backend/internal/domain/pricing"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

// QuoteRequest prices a prospective order without placing it
type QuoteRequest struct {
	Items        []CheckoutItem `json:"items"`
	DeliveryType DeliveryType   `json:"deliveryType"`
	PromoCode    string         `json:"promoCode"`
}

// Validate checks a quote request
func (r QuoteRequest) Validate() error {
	v := &apperror.ValidationError{}

	if len(r.Items) == 0 {
		v.Add("items", "Order must have at least one item")
	}
	for i, item := range r.Items {
		if item.ProductID == 0 {
			v.Add(fmt.Sprintf("items[%d].productId", i), "Product is required")
		}
		if item.Quantity < 1 {
			v.Add(fmt.Sprintf("items[%d].quantity", i), "Quantity must be at least 1")
		}
	}
	if r.DeliveryType != DeliveryTypeDelivery && r.DeliveryType != DeliveryTypePickup {
		v.Add("deliveryType", "Delivery type must be DELIVERY or PICKUP")
	}

	return v.OrNil()
}

// Quote is the priced form of a set of order lines
type Quote struct {
	Items      []OrderItem     `json:"items"`
	Summary    pricing.Summary `json:"summary"`
	PromoCode  *string         `json:"promoCode"`
	PromoError *string         `json:"promoError,omitempty"` // why a supplied code was not applied

	promo *PromoCode
}

// Quote prices the request exactly as Checkout would, without touching stock.
// A promo code that does not redeem is priced at no discount, as at checkout.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.price(ctx, req.Items, req.DeliveryType, req.PromoCode)
}

func (s *Service) price(ctx context.Context, requested []CheckoutItem, delivery DeliveryType, promoCode string) (*Quote, error) {
	lines := mergeLines(requested)
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := s.products.GetPublishedByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load order products: %w", err)
	}

	q := &Quote{Items: make([]OrderItem, 0, len(lines))}
	priced := make([]pricing.LineItem, 0, len(lines))
	for _, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			return nil, apperror.Invalid("product %d not found or unavailable", line.ProductID)
		}
		if !p.InStock(line.Quantity) {
			return nil, apperror.Invalid("insufficient stock for %s. Available: %d", p.Name, p.Stock)
		}

		q.Items = append(q.Items, OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
			TotalPrice:  pricing.Round(pricing.LineTotal(p.Price, line.Quantity)),
		})
		priced = append(priced, pricing.LineItem{UnitPrice: p.Price, Quantity: line.Quantity})
	}

	subtotal := pricing.Subtotal(priced)
	discount := decimal.Zero
	if code := strings.TrimSpace(promoCode); code != "" {
		promo, reason, err := s.redeemablePromo(ctx, code, subtotal, s.now())
		if err != nil {
			return nil, err
		}
		if promo != nil {
			q.promo = promo
			discount = promo.Discount(subtotal)
			q.PromoCode = &promo.Code
		} else {
			q.PromoError = &reason
		}
	}

	q.Summary = s.policy.PricingPolicy(ctx).Quote(priced, pricing.QuoteOptions{
		Pickup:   delivery == DeliveryTypePickup,
		Discount: discount,
	})
	return q, nil
}
