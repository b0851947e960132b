// internal/domain/notification/order_notifier.go
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/order"
	"github.com/zozagateway/snack-backend/internal/domain/settings"
	"github.com/zozagateway/snack-backend/internal/pkg/email"
)

// Mailer sends order emails
type Mailer interface {
	SendOrderPlaced(ctx context.Context, to string, data email.OrderEmailData) error
	SendOrderCancelled(ctx context.Context, to string, data email.OrderEmailData) error
}

// SettingsSource supplies the current store settings
type SettingsSource interface {
	Current(ctx context.Context) settings.StoreSettings
}

// OrderNotifier emails customers about their orders when the store
// settings allow it. Failures are logged, never returned.
type OrderNotifier struct {
	mailer   Mailer
	settings SettingsSource
	siteURL  string
	logger   logrus.FieldLogger
}

// NewOrderNotifier creates an order notifier
func NewOrderNotifier(mailer Mailer, settings SettingsSource, siteURL string, logger logrus.FieldLogger) *OrderNotifier {
	return &OrderNotifier{
		mailer:   mailer,
		settings: settings,
		siteURL:  strings.TrimRight(siteURL, "/"),
		logger:   logger,
	}
}

// OrderPlaced sends the order confirmation
func (n *OrderNotifier) OrderPlaced(ctx context.Context, o *order.Order) {
	current := n.settings.Current(ctx)
	if !current.EmailNewOrder || o.Customer == nil {
		return
	}

	err := n.mailer.SendOrderPlaced(ctx, o.Customer.Email, n.emailData(o, current))
	n.report(err, o, "order placed")
}

// OrderCancelled sends the cancellation notice
func (n *OrderNotifier) OrderCancelled(ctx context.Context, o *order.Order) {
	current := n.settings.Current(ctx)
	if !current.EmailCancelledOrder || o.Customer == nil {
		return
	}

	err := n.mailer.SendOrderCancelled(ctx, o.Customer.Email, n.emailData(o, current))
	n.report(err, o, "order cancelled")
}

func (n *OrderNotifier) report(err error, o *order.Order, kind string) {
	if err == nil {
		return
	}
	n.logger.WithError(err).WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
	}).Warnf("failed to send %s email", kind)
}

func (n *OrderNotifier) emailData(o *order.Order, current settings.StoreSettings) email.OrderEmailData {
	data := email.OrderEmailData{
		StoreName:    current.StoreName,
		CustomerName: o.Customer.Name,
		OrderNumber:  o.OrderNumber,
		OrderDate:    o.CreatedAt.Format("January 2, 2006"),
		DeliveryType: string(o.DeliveryType),
		Subtotal:     o.Subtotal.StringFixed(2),
		DeliveryFee:  o.DeliveryFee.StringFixed(2),
		Discount:     o.Discount.StringFixed(2),
		Total:        o.Total.StringFixed(2),
		Currency:     current.Currency,
		OrderURL:     fmt.Sprintf("%s/orders/%d", n.siteURL, o.ID),
		Year:         time.Now().Year(),
	}

	if o.DeliveryType == order.DeliveryTypeDelivery && o.Address != nil {
		data.Address = *o.Address
		if o.City != nil {
			data.Address += ", " + *o.City
		}
	}

	data.Items = make([]email.OrderLine, len(o.Items))
	for i, item := range o.Items {
		data.Items[i] = email.OrderLine{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Total:    item.TotalPrice.StringFixed(2),
		}
	}
	return data
}
