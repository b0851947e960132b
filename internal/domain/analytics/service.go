// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zozagateway/snack-backend/internal/domain/pricing"
	"github.com/zozagateway/snack-backend/internal/domain/product"
	"gorm.io/gorm"
)

// StockSource lists products that need restocking
type StockSource interface {
	LowStock(ctx context.Context, threshold int) ([]product.Product, error)
}

// ThresholdSource supplies the configured low-stock threshold
type ThresholdSource interface {
	LowStockThreshold(ctx context.Context) int
}

// Service handles analytics business logic
type Service struct {
	db        *gorm.DB
	stock     StockSource
	threshold ThresholdSource
	now       func() time.Time
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, stock StockSource, threshold ThresholdSource) *Service {
	return &Service{
		db:        db,
		stock:     stock,
		threshold: threshold,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// DashboardStats represents the admin landing page figures
type DashboardStats struct {
	TotalRevenue     decimal.Decimal   `json:"totalRevenue"`
	TodayOrders      int64             `json:"todayOrders"`
	PendingOrders    int64             `json:"pendingOrders"`
	TotalProducts    int64             `json:"totalProducts"`
	RevenueChange    float64           `json:"revenueChange"`
	OrdersChange     float64           `json:"ordersChange"`
	LowStockProducts []LowStockProduct `json:"lowStockProducts"`
}

// LowStockProduct is a published product at or under the threshold
type LowStockProduct struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Stock int    `json:"stock"`
}

// SalesAnalytics represents sales for a period compared with the one before
type SalesAnalytics struct {
	Period          string          `json:"period"`
	Summary         SalesSummary    `json:"summary"`
	RevenueByDay    []DailyRevenue  `json:"revenueByDay"`
	TopProducts     []ProductSales  `json:"topSellingProducts"`
	SalesByCategory []CategorySales `json:"salesByCategory"`
}

// SalesSummary holds period totals and their change against the previous period
type SalesSummary struct {
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	OrderCount          int64           `json:"orderCount"`
	AvgOrderValue       decimal.Decimal `json:"avgOrderValue"`
	RevenueChange       float64         `json:"revenueChange"`
	OrderCountChange    float64         `json:"orderCountChange"`
	AvgOrderValueChange float64         `json:"avgOrderValueChange"`
}

// DailyRevenue is one point of the revenue chart
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// ProductSales is a best-selling product
type ProductSales struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CategorySales is revenue grouped by category
type CategorySales struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type totals struct {
	Revenue  decimal.Decimal
	Orders   int64
	AvgOrder decimal.Decimal
}

// GetDashboardStats retrieves the dashboard figures
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	if err := db.Raw("SELECT COALESCE(SUM(total), 0) FROM orders WHERE status <> 'CANCELLED'").
		Row().Scan(&stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to get total revenue: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := db.Raw("SELECT COUNT(*) FROM orders WHERE created_at >= ?", today).
		Scan(&stats.TodayOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}

	if err := db.Raw("SELECT COUNT(*) FROM orders WHERE status = 'PENDING'").
		Scan(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	if err := db.Raw("SELECT COUNT(*) FROM products WHERE deleted_at IS NULL").
		Scan(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	w := periodWindow(defaultPeriod, now)
	current, err := s.totals(ctx, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	previous, err := s.totals(ctx, w.PrevStart, w.PrevEnd)
	if err != nil {
		return nil, err
	}
	stats.RevenueChange = percentChange(current.Revenue, previous.Revenue)
	stats.OrdersChange = percentChange(decimal.NewFromInt(current.Orders), decimal.NewFromInt(previous.Orders))

	low, err := s.stock.LowStock(ctx, s.threshold.LowStockThreshold(ctx))
	if err != nil {
		return nil, err
	}
	stats.LowStockProducts = make([]LowStockProduct, len(low))
	for i, p := range low {
		stats.LowStockProducts[i] = LowStockProduct{ID: p.ID, Name: p.Name, Slug: p.Slug, Stock: p.Stock}
	}

	stats.TotalRevenue = pricing.Round(stats.TotalRevenue)
	return stats, nil
}

// GetSalesAnalytics retrieves sales for period (7d, 30d, 90d or 12m)
func (s *Service) GetSalesAnalytics(ctx context.Context, period string) (*SalesAnalytics, error) {
	w := periodWindow(period, s.now())

	current, err := s.totals(ctx, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	previous, err := s.totals(ctx, w.PrevStart, w.PrevEnd)
	if err != nil {
		return nil, err
	}

	analytics := &SalesAnalytics{
		Period: w.Period,
		Summary: SalesSummary{
			TotalRevenue:        pricing.Round(current.Revenue),
			OrderCount:          current.Orders,
			AvgOrderValue:       pricing.Round(current.AvgOrder),
			RevenueChange:       percentChange(current.Revenue, previous.Revenue),
			OrderCountChange:    percentChange(decimal.NewFromInt(current.Orders), decimal.NewFromInt(previous.Orders)),
			AvgOrderValueChange: percentChange(current.AvgOrder, previous.AvgOrder),
		},
		RevenueByDay:    []DailyRevenue{},
		TopProducts:     []ProductSales{},
		SalesByCategory: []CategorySales{},
	}

	db := s.db.WithContext(ctx)

	err = db.Raw(`
		SELECT
			TO_CHAR(DATE_TRUNC('day', created_at), 'YYYY-MM-DD') AS date,
			COALESCE(SUM(total), 0) AS revenue,
			COUNT(*) AS orders
		FROM orders
		WHERE created_at >= ? AND created_at < ? AND status <> 'CANCELLED'
		GROUP BY 1
		ORDER BY 1
	`, w.Start, w.End).Scan(&analytics.RevenueByDay).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily revenue: %w", err)
	}

	err = db.Raw(`
		SELECT
			oi.product_id,
			COALESCE(MAX(p.name), MAX(oi.product_name)) AS name,
			SUM(oi.quantity) AS quantity,
			SUM(oi.total_price) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.created_at >= ? AND o.created_at < ? AND o.status <> 'CANCELLED'
		GROUP BY oi.product_id
		ORDER BY revenue DESC
		LIMIT 10
	`, w.Start, w.End).Scan(&analytics.TopProducts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}

	err = db.Raw(`
		SELECT
			COALESCE(c.name, 'Uncategorized') AS name,
			SUM(oi.quantity) AS quantity,
			SUM(oi.total_price) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE o.created_at >= ? AND o.created_at < ? AND o.status <> 'CANCELLED'
		GROUP BY 1
		ORDER BY revenue DESC
	`, w.Start, w.End).Scan(&analytics.SalesByCategory).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales by category: %w", err)
	}

	for i := range analytics.RevenueByDay {
		analytics.RevenueByDay[i].Revenue = pricing.Round(analytics.RevenueByDay[i].Revenue)
	}
	for i := range analytics.TopProducts {
		analytics.TopProducts[i].Revenue = pricing.Round(analytics.TopProducts[i].Revenue)
	}
	for i := range analytics.SalesByCategory {
		analytics.SalesByCategory[i].Revenue = pricing.Round(analytics.SalesByCategory[i].Revenue)
	}

	return analytics, nil
}

// totals aggregates non-cancelled orders created in [from, to)
func (s *Service) totals(ctx context.Context, from, to time.Time) (totals, error) {
	var t totals
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total), 0) AS revenue,
			COUNT(*) AS orders,
			COALESCE(AVG(total), 0) AS avg_order
		FROM orders
		WHERE created_at >= ? AND created_at < ? AND status <> 'CANCELLED'
	`, from, to).Scan(&t).Error
	if err != nil {
		return totals{}, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	return t, nil
}

// percentChange is the change from previous to current in percent, one
// decimal place. Growth from nothing counts as 100.
func percentChange(current, previous decimal.Decimal) float64 {
	if previous.IsPositive() {
		change, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		return change
	}
	if current.IsPositive() {
		return 100
	}
	return 0
}
