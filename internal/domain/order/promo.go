// internal/domain/order/promo.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Redeemable reports whether the code can be used right now
func (p *PromoCode) Redeemable(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return false
	}
	if p.MaxUses != nil && p.UsedCount >= *p.MaxUses {
		return false
	}
	return true
}

// Applies reports whether the subtotal meets the minimum order
func (p *PromoCode) Applies(subtotal decimal.Decimal) bool {
	return !p.MinOrder.Valid || subtotal.GreaterThanOrEqual(p.MinOrder.Decimal)
}

// Discount computes the reduction for subtotal, never more than subtotal
func (p *PromoCode) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var off decimal.Decimal
	switch p.DiscountType {
	case DiscountPercentage:
		off = subtotal.Mul(p.DiscountValue).Div(hundred)
	case DiscountFixed:
		off = p.DiscountValue
	default:
		return decimal.Zero
	}

	off = off.Round(2)
	if off.GreaterThan(subtotal) {
		return subtotal
	}
	if off.IsNegative() {
		return decimal.Zero
	}
	return off
}
