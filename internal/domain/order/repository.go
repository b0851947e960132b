// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zozagateway/snack-backend/internal/domain/product"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"github.com/zozagateway/snack-backend/internal/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateEvent is returned when a payment event id was already applied
var ErrDuplicateEvent = errors.New("payment event already processed")

// Mutation changes a locked order and returns the timeline entry to append,
// or nil when the status did not change.
type Mutation func(o *Order) (*TimelineEntry, error)

// ListFilter narrows an order listing
type ListFilter struct {
	UserID   uint
	Status   Status
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Paging   pagination.Params
}

// Repository persists orders
type Repository interface {
	Create(ctx context.Context, o *Order, promoID *uint) error
	FindByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, int64, error)
	Update(ctx context.Context, id uint, event *ProcessedEvent, fn Mutation) (*Order, error)
	FindPromo(ctx context.Context, code string) (*PromoCode, error)
}

// GormRepository is the Postgres-backed Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates an order repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create stores the order with its items and first timeline entry, taking
// stock and promo usage in the same transaction.
func (r *GormRepository) Create(ctx context.Context, o *Order, promoID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range o.Items {
			res := tx.Model(&product.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to reserve stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return apperror.Invalid("insufficient stock for %s", item.ProductName)
			}
		}

		if promoID != nil {
			res := tx.Model(&PromoCode{}).
				Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", *promoID).
				UpdateColumn("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return fmt.Errorf("failed to redeem promo code: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return apperror.NewValidation("promoCode", "Promo code is no longer available")
			}
		}

		if err := tx.Omit("Customer").Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// FindByID loads an order with items, timeline and customer
func (r *GormRepository) FindByID(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Timeline", chronological).
		Preload("Customer").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("order")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// List returns one page of orders, newest first
func (r *GormRepository) List(ctx context.Context, filter ListFilter) ([]Order, int64, error) {
	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&Order{})

		if filter.UserID > 0 {
			query = query.Where("orders.user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			query = query.Where("orders.status = ?", filter.Status)
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			pattern := pagination.ContainsPattern(search)
			query = query.Where(
				"(orders.order_number ILIKE ? OR orders.user_id IN (SELECT id FROM users WHERE name ILIKE ? OR email ILIKE ?))",
				pattern, pattern, pattern,
			)
		}
		if filter.DateFrom != nil {
			query = query.Where("orders.created_at >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			query = query.Where("orders.created_at <= ?", *filter.DateTo)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := base().
		Preload("Items").
		Preload("Customer").
		Order("orders.created_at DESC").
		Offset(filter.Paging.Offset()).
		Limit(filter.Paging.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return orders, total, nil
}

// Update applies fn to the row-locked order. The order row, the returned
// timeline entry, the event ledger row and any stock restored by a
// cancellation commit together.
func (r *GormRepository) Update(ctx context.Context, id uint, event *ProcessedEvent, fn Mutation) (*Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if event != nil {
			event.OrderID = id
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(event)
			if res.Error != nil {
				return fmt.Errorf("failed to record payment event: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrDuplicateEvent
			}
		}

		var o Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("order")
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}
		if err := tx.Where("order_id = ?", o.ID).Find(&o.Items).Error; err != nil {
			return fmt.Errorf("failed to get order items: %w", err)
		}

		before := o.Status
		entry, err := fn(&o)
		if err != nil {
			return err
		}

		if err := tx.Model(&o).Select("status", "payment_status", "payment_id", "updated_at").Updates(&o).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if entry != nil {
			entry.OrderID = o.ID
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("failed to create timeline entry: %w", err)
			}
		}

		if before != StatusCancelled && o.Status == StatusCancelled {
			if err := restoreStock(tx, o.Items); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

// FindPromo looks a promo code up case-insensitively
func (r *GormRepository) FindPromo(ctx context.Context, code string) (*PromoCode, error) {
	var promo PromoCode
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("promo code")
		}
		return nil, fmt.Errorf("failed to retrieve promo code: %w", err)
	}
	return &promo, nil
}

func restoreStock(tx *gorm.DB, items []OrderItem) error {
	for _, item := range items {
		err := tx.Model(&product.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error
		if err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
	}
	return nil
}

func chronological(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}
