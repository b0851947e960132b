// internal/domain/cart/store.go
package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/pricing"
)

// Persister stores a whole cart for one session
type Persister interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
	Clear(ctx context.Context) error
}

// Store is the cart of a single session. It is not safe for concurrent use;
// a session has exactly one writer.
type Store struct {
	items     []Item
	persister Persister
	logger    logrus.FieldLogger
}

// NewStore restores the cart from the persister. A failed restore starts an
// empty cart.
func NewStore(ctx context.Context, persister Persister, logger logrus.FieldLogger) *Store {
	s := &Store{
		persister: persister,
		logger:    logger,
	}

	items, err := persister.Load(ctx)
	if err != nil {
		logger.WithError(err).Warn("failed to restore cart")
		return s
	}
	for _, item := range items {
		if item.Quantity > 0 {
			s.items = append(s.items, item)
		}
	}
	return s
}

// AddOne adds a single unit of product
func (s *Store) AddOne(ctx context.Context, product ProductSnapshot) {
	s.AddItem(ctx, product, 1)
}

// AddItem increments the product's quantity, appending it when absent.
// Quantities below 1 are ignored.
func (s *Store) AddItem(ctx context.Context, product ProductSnapshot, quantity int) {
	if quantity < 1 {
		return
	}

	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
		s.items[i].Product = product
	} else {
		s.items = append(s.items, Item{Product: product, Quantity: quantity})
	}
	s.persist(ctx)
}

// RemoveItem drops the product from the cart
func (s *Store) RemoveItem(ctx context.Context, productID uint) {
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persist(ctx)
}

// UpdateQuantity sets the quantity exactly; zero or less removes the item
func (s *Store) UpdateQuantity(ctx context.Context, productID uint, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.items[i].Quantity = quantity
	s.persist(ctx)
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) {
	s.items = nil
	if err := s.persister.Clear(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to clear persisted cart")
	}
}

// Items returns a copy of the cart lines in insertion order
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Item looks up a single line
func (s *Store) Item(productID uint) (Item, bool) {
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// ItemCount is the sum of quantities
func (s *Store) ItemCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Subtotal applies the pricing subtotal rule to the current lines
func (s *Store) Subtotal() decimal.Decimal {
	return pricing.Subtotal(s.lineItems())
}

// Summary prices the cart under the given delivery policy
func (s *Store) Summary(policy pricing.Policy) pricing.Summary {
	return policy.Calculate(s.lineItems())
}

func (s *Store) lineItems() []pricing.LineItem {
	lines := make([]pricing.LineItem, len(s.items))
	for i, item := range s.items {
		lines[i] = pricing.LineItem{UnitPrice: item.Product.Price, Quantity: item.Quantity}
	}
	return lines
}

func (s *Store) indexOf(productID uint) int {
	for i, item := range s.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// persist failures never fail the mutation
func (s *Store) persist(ctx context.Context) {
	if err := s.persister.Save(ctx, s.Items()); err != nil {
		s.logger.WithError(err).Warn("failed to persist cart")
	}
}
