// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of an order
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusDelivered Status = "DELIVERED"
	StatusPickedUp  Status = "PICKED_UP"
	StatusCancelled Status = "CANCELLED"
)

// PaymentStatus is the payment state reported by the gateway
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// DeliveryType says how the customer receives the order
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "DELIVERY"
	DeliveryTypePickup   DeliveryType = "PICKUP"
)

// Order represents a placed order. Money fields are fixed at checkout.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderNumber   string        `gorm:"uniqueIndex;not null;size:50" json:"orderNumber"`
	UserID        uint          `gorm:"not null;index" json:"userId"`
	Status        Status        `gorm:"not null;size:20;default:'PENDING';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;size:20;default:'PENDING'" json:"paymentStatus"`
	PaymentID     *string       `gorm:"size:255" json:"paymentId"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"deliveryFee"`
	Discount    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount"`
	Total       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`

	DeliveryType DeliveryType `gorm:"not null;size:20" json:"deliveryType"`
	Address      *string      `gorm:"size:500" json:"address"`
	City         *string      `gorm:"size:100" json:"city"`
	Phone        string       `gorm:"not null;size:30" json:"phone"`
	Notes        *string      `gorm:"type:text" json:"notes"`
	PromoCode    *string      `gorm:"size:50" json:"promoCode"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Customer *Customer       `gorm:"foreignKey:UserID;-:migration" json:"customer,omitempty"`
	Items    []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Timeline []TimelineEntry `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"timeline"`
}

// OrderItem is a line of an order with prices snapshotted at checkout
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"orderId"`
	ProductID   uint            `gorm:"not null;index" json:"productId"`
	ProductName string          `gorm:"not null;size:255" json:"productName"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unitPrice"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalPrice"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TimelineEntry is an append-only record of a status change
type TimelineEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"orderId"`
	Status    Status    `gorm:"not null;size:20" json:"status"`
	Note      *string   `gorm:"type:text" json:"note"`
	ChangedBy *uint     `json:"changedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Customer is the read-only view of the ordering user
type Customer struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// DiscountType is how a promo code reduces the subtotal
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode is a redeemable discount
type PromoCode struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	Code          string              `gorm:"uniqueIndex;not null;size:50" json:"code"`
	DiscountType  DiscountType        `gorm:"not null;size:20" json:"discountType"`
	DiscountValue decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"discountValue"`
	MinOrder      decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"minOrder"`
	MaxUses       *int                `json:"maxUses"`
	UsedCount     int                 `gorm:"not null;default:0" json:"usedCount"`
	Active        bool                `gorm:"not null;default:true" json:"active"`
	ExpiresAt     *time.Time          `json:"expiresAt"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// ProcessedEvent is the ledger of applied payment gateway events
type ProcessedEvent struct {
	EventID     string    `gorm:"primaryKey;size:255" json:"eventId"`
	EventType   string    `gorm:"not null;size:100" json:"eventType"`
	OrderID     uint      `gorm:"index" json:"orderId"`
	ProcessedAt time.Time `gorm:"not null" json:"processedAt"`
}

// TableName overrides
func (Order) TableName() string          { return "orders" }
func (OrderItem) TableName() string      { return "order_items" }
func (TimelineEntry) TableName() string  { return "order_timeline" }
func (Customer) TableName() string       { return "users" }
func (PromoCode) TableName() string      { return "promo_codes" }
func (ProcessedEvent) TableName() string { return "processed_webhook_events" }

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusPickedUp || s == StatusCancelled
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusDelivered, StatusPickedUp, StatusCancelled:
		return true
	}
	return false
}

// ItemCount is the total quantity across lines
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
