// internal/domain/settings/service.go
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/domain/pricing"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	cacheKey = "settings:store"
	cacheTTL = 10 * time.Minute
)

// Service reads and writes the store settings row through a Redis cache
type Service struct {
	db     *gorm.DB
	cache  *redis.Client
	config *config.Config
	logger logrus.FieldLogger
}

// NewService creates a new settings service. cache may be nil.
func NewService(db *gorm.DB, cache *redis.Client, cfg *config.Config, logger logrus.FieldLogger) *Service {
	return &Service{
		db:     db,
		cache:  cache,
		config: cfg,
		logger: logger,
	}
}

// UpdateRequest replaces the store settings
type UpdateRequest struct {
	StoreName             string          `json:"storeName"`
	Currency              string          `json:"currency"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee"`
	FreeDeliveryThreshold decimal.Decimal `json:"freeDeliveryThreshold"`
	LowStockThreshold     int             `json:"lowStockThreshold"`
	EmailNewOrder         bool            `json:"emailNewOrder"`
	EmailCancelledOrder   bool            `json:"emailCancelledOrder"`
}

// Validate checks a settings update
func (r UpdateRequest) Validate() error {
	v := &apperror.ValidationError{}

	if strings.TrimSpace(r.StoreName) == "" {
		v.Add("storeName", "Store name is required")
	}
	if len(strings.TrimSpace(r.Currency)) != 3 {
		v.Add("currency", "Currency must be a 3-letter code")
	}
	if r.DeliveryFee.IsNegative() {
		v.Add("deliveryFee", "Delivery fee cannot be negative")
	}
	if r.FreeDeliveryThreshold.IsNegative() {
		v.Add("freeDeliveryThreshold", "Free delivery threshold cannot be negative")
	}
	if r.LowStockThreshold < 0 {
		v.Add("lowStockThreshold", "Low stock threshold cannot be negative")
	}

	return v.OrNil()
}

// Get returns the saved settings, or the configured defaults when none are saved
func (s *Service) Get(ctx context.Context) (*StoreSettings, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	var row StoreSettings
	err := s.db.WithContext(ctx).First(&row, singletonID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = Defaults(s.config)
	case err != nil:
		return nil, fmt.Errorf("failed to retrieve settings: %w", err)
	}

	s.toCache(ctx, &row)
	return &row, nil
}

// Current never fails: storage errors are logged and the defaults returned
func (s *Service) Current(ctx context.Context) StoreSettings {
	row, err := s.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("using default store settings")
		return Defaults(s.config)
	}
	return *row
}

// PricingPolicy returns the delivery fee policy in force
func (s *Service) PricingPolicy(ctx context.Context) pricing.Policy {
	return s.Current(ctx).Policy()
}

// Update saves the settings and drops the cached copy
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*StoreSettings, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row := StoreSettings{
		ID:                    singletonID,
		StoreName:             strings.TrimSpace(req.StoreName),
		Currency:              strings.ToUpper(strings.TrimSpace(req.Currency)),
		DeliveryFee:           pricing.Round(req.DeliveryFee),
		FreeDeliveryThreshold: pricing.Round(req.FreeDeliveryThreshold),
		LowStockThreshold:     req.LowStockThreshold,
		EmailNewOrder:         req.EmailNewOrder,
		EmailCancelledOrder:   req.EmailCancelledOrder,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey).Err(); err != nil {
			s.logger.WithError(err).Warn("failed to invalidate settings cache")
		}
	}

	s.logger.WithField("store_name", row.StoreName).Info("store settings updated")
	return &row, nil
}

func (s *Service) fromCache(ctx context.Context) (*StoreSettings, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WithError(err).Warn("settings cache read failed")
		}
		return nil, false
	}

	var row StoreSettings
	if err := json.Unmarshal(raw, &row); err != nil {
		s.logger.WithError(err).Warn("discarding unreadable settings cache entry")
		return nil, false
	}
	return &row, true
}

func (s *Service) toCache(ctx context.Context, row *StoreSettings) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(row)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("settings cache write failed")
	}
}

// LowStockThreshold returns the stock level at which products are flagged
func (s *Service) LowStockThreshold(ctx context.Context) int {
	return s.Current(ctx).LowStockThreshold
}
