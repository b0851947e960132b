// internal/domain/pricing/calculator.go
package pricing

import (
	"github.com/shopspring/decimal"
)

// Money values leave this package rounded to cents.
const moneyPlaces = 2

// LineItem is a (unit price, quantity) pair
type LineItem struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Policy holds the delivery fee and the subtotal at which it is waived
type Policy struct {
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

// Summary is the priced result of a set of line items
type Summary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// QuoteOptions adjusts a quote for checkout
type QuoteOptions struct {
	Pickup   bool
	Discount decimal.Decimal
}

// Round rounds half-up to cents. Inputs are never negative here, so
// decimal's half-away-from-zero is the same thing.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// LineTotal is unitPrice × quantity at full precision
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Subtotal sums line totals at full precision and rounds once at the end
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item.UnitPrice, item.Quantity))
	}
	return Round(sum)
}

// DeliveryFeeFor returns the fee owed on a rounded subtotal. An empty cart
// owes nothing.
func (p Policy) DeliveryFeeFor(subtotal decimal.Decimal, itemCount int) decimal.Decimal {
	if itemCount == 0 {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return Round(p.DeliveryFee)
}

// Calculate prices a cart for delivery with no discount
func (p Policy) Calculate(items []LineItem) Summary {
	return p.Quote(items, QuoteOptions{})
}

// Quote prices items for checkout. Pickup orders pay no delivery fee and the
// discount never exceeds the subtotal.
func (p Policy) Quote(items []LineItem, opts QuoteOptions) Summary {
	subtotal := Subtotal(items)

	fee := decimal.Zero
	if !opts.Pickup {
		fee = p.DeliveryFeeFor(subtotal, len(items))
	}

	discount := Round(opts.Discount)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	return Summary{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Discount:    discount,
		Total:       subtotal.Add(fee).Sub(discount),
	}
}
