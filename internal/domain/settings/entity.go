// internal/domain/settings/entity.go
package settings

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/domain/pricing"
)

// singletonID is the primary key of the only settings row
const singletonID = 1

// StoreSettings holds the storefront options an admin can change
type StoreSettings struct {
	ID                    uint            `gorm:"primaryKey" json:"-"`
	StoreName             string          `gorm:"not null;size:100" json:"storeName"`
	Currency              string          `gorm:"not null;size:3" json:"currency"`
	DeliveryFee           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"deliveryFee"`
	FreeDeliveryThreshold decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"freeDeliveryThreshold"`
	LowStockThreshold     int             `gorm:"not null;default:10" json:"lowStockThreshold"`
	EmailNewOrder         bool            `gorm:"not null;default:true" json:"emailNewOrder"`
	EmailCancelledOrder   bool            `gorm:"not null;default:true" json:"emailCancelledOrder"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// TableName overrides the table name for StoreSettings
func (StoreSettings) TableName() string {
	return "store_settings"
}

// Defaults builds the settings used before an admin saves any
func Defaults(cfg *config.Config) StoreSettings {
	return StoreSettings{
		ID:                    singletonID,
		StoreName:             cfg.Store.Name,
		Currency:              cfg.Store.Currency,
		DeliveryFee:           cfg.Store.DeliveryFee,
		FreeDeliveryThreshold: cfg.Store.FreeDeliveryThreshold,
		LowStockThreshold:     cfg.Store.LowStockThreshold,
		EmailNewOrder:         true,
		EmailCancelledOrder:   true,
	}
}

// Policy is the delivery fee policy these settings describe
func (s StoreSettings) Policy() pricing.Policy {
	return pricing.Policy{
		DeliveryFee:           s.DeliveryFee,
		FreeDeliveryThreshold: s.FreeDeliveryThreshold,
	}
}
