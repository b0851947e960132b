// internal/domain/user/admin_service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"github.com/zozagateway/snack-backend/internal/pkg/auth"
	"github.com/zozagateway/snack-backend/internal/pkg/pagination"
	"gorm.io/gorm"
)

// AdminService handles admin user operations
type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: cfg,
	}
}

// CustomerListParams represents the customer list query
type CustomerListParams struct {
	Page   int    `form:"page"`
	Limit  *int   `form:"limit"`
	Search string `form:"search"`
}

// CustomerWithStats represents a customer with order statistics.
// TotalSpent excludes cancelled orders; OrderCount does not.
type CustomerWithStats struct {
	User
	OrderCount  int64           `json:"orderCount"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	LastOrderAt *time.Time      `json:"lastOrderAt"`
}

type customerStats struct {
	UserID      uint
	OrderCount  int64
	TotalSpent  decimal.Decimal
	LastOrderAt *time.Time
}

// ListCustomers returns customers newest first with their order statistics
func (s *AdminService) ListCustomers(ctx context.Context, params CustomerListParams) (*pagination.Page[CustomerWithStats], error) {
	paging := pagination.Query{Page: params.Page, Limit: params.Limit}.Normalize(20, 50)

	base := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&User{}).Where("role = ?", auth.RoleCustomer)
		if search := strings.TrimSpace(params.Search); search != "" {
			pattern := pagination.ContainsPattern(search)
			query = query.Where("(name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)", pattern, pattern, pattern)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	var users []User
	err := base().
		Order("created_at DESC").
		Offset(paging.Offset()).
		Limit(paging.Limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve customers: %w", err)
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	stats, err := s.statsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	customers := make([]CustomerWithStats, len(users))
	for i, u := range users {
		customers[i] = withStats(u, stats[u.ID])
	}

	return pagination.New(customers, total, paging), nil
}

// GetCustomer returns one customer with order statistics
func (s *AdminService) GetCustomer(ctx context.Context, id uint) (*CustomerWithStats, error) {
	var u User
	err := s.db.WithContext(ctx).Where("role = ?", auth.RoleCustomer).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("customer")
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}

	stats, err := s.statsFor(ctx, []uint{u.ID})
	if err != nil {
		return nil, err
	}

	customer := withStats(u, stats[u.ID])
	return &customer, nil
}

// statsFor aggregates orders for a page of customers in one query
func (s *AdminService) statsFor(ctx context.Context, ids []uint) (map[uint]customerStats, error) {
	out := make(map[uint]customerStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []customerStats
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			user_id,
			COUNT(*) AS order_count,
			COALESCE(SUM(CASE WHEN status <> 'CANCELLED' THEN total ELSE 0 END), 0) AS total_spent,
			MAX(created_at) AS last_order_at
		FROM orders
		WHERE user_id IN ?
		GROUP BY user_id
	`, ids).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate customer orders: %w", err)
	}

	for _, row := range rows {
		out[row.UserID] = row
	}
	return out, nil
}

func withStats(u User, stats customerStats) CustomerWithStats {
	return CustomerWithStats{
		User:        u,
		OrderCount:  stats.OrderCount,
		TotalSpent:  stats.TotalSpent.Round(2),
		LastOrderAt: stats.LastOrderAt,
	}
}
