// internal/domain/cart/validator.go
package cart

import (
	"context"
	"fmt"

	"github.com/zozagateway/snack-backend/internal/domain/pricing"
	"github.com/zozagateway/snack-backend/internal/domain/product"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

// ProductLookup resolves published products by id
type ProductLookup interface {
	GetPublishedByIDs(ctx context.Context, ids []uint) (map[uint]product.Product, error)
}

// Validator checks client carts against live stock. It never mutates anything.
type Validator struct {
	products ProductLookup
}

// NewValidator creates a cart validator
func NewValidator(products ProductLookup) *Validator {
	return &Validator{
		products: products,
	}
}

// Validate reports per-line availability and an overall verdict
func (v *Validator) Validate(ctx context.Context, req ValidateRequest) (*ValidationResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(req.Items))
	for _, line := range req.Items {
		ids = append(ids, line.ProductID)
	}

	products, err := v.products.GetPublishedByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	result := &ValidationResult{
		Valid:  true,
		Items:  make([]ValidatedItem, 0, len(req.Items)),
		Errors: []string{},
	}

	for _, line := range req.Items {
		p, ok := products[line.ProductID]
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Product %d is no longer available", line.ProductID))
			continue
		}

		available := p.InStock(line.Quantity)
		if !available {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s only has %d in stock", p.Name, p.Stock))
		}

		result.Items = append(result.Items, ValidatedItem{
			ProductID:  p.ID,
			Name:       p.Name,
			Quantity:   line.Quantity,
			UnitPrice:  p.Price,
			TotalPrice: pricing.Round(pricing.LineTotal(p.Price, line.Quantity)),
			Available:  available,
		})
	}

	return result, nil
}

// Snapshot captures what the cart keeps of a product
func Snapshot(p product.Product) ProductSnapshot {
	return ProductSnapshot{
		ID:    p.ID,
		Name:  p.Name,
		Slug:  p.Slug,
		Price: p.Price,
		Image: p.PrimaryImage(),
		Stock: p.Stock,
	}
}

func (r ValidateRequest) validate() error {
	v := &apperror.ValidationError{}
	if len(r.Items) == 0 {
		v.Add("items", "Cart must contain at least one item")
	}
	for i, line := range r.Items {
		if line.ProductID == 0 {
			v.Add(fmt.Sprintf("items[%d].productId", i), "Product is required")
		}
		if line.Quantity < 1 {
			v.Add(fmt.Sprintf("items[%d].quantity", i), "Quantity must be at least 1")
		}
	}
	return v.OrNil()
}
