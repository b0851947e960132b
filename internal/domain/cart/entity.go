// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the product data captured when an item enters the cart
type ProductSnapshot struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
	Stock int             `json:"stock"`
}

// Item is one cart line. Quantity is always at least 1.
type Item struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// LineTotal returns price × quantity at full precision
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineRequest is a client-submitted (productId, quantity) pair
type LineRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// ValidateRequest is the body of the cart validation endpoint
type ValidateRequest struct {
	Items []LineRequest `json:"items"`
}

// ValidatedItem reports one line checked against live stock
type ValidatedItem struct {
	ProductID  uint            `json:"productId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Available  bool            `json:"available"`
}

// ValidationResult is the response of the cart validation endpoint
type ValidationResult struct {
	Valid  bool            `json:"valid"`
	Items  []ValidatedItem `json:"items"`
	Errors []string        `json:"errors"`
}
