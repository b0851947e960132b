// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/domain/pricing"
	"github.com/zozagateway/snack-backend/internal/domain/product"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
	"github.com/zozagateway/snack-backend/internal/pkg/pagination"
)

// ProductLookup resolves published products by id
type ProductLookup interface {
	GetPublishedByIDs(ctx context.Context, ids []uint) (map[uint]product.Product, error)
}

// PolicySource supplies the delivery fee policy in force
type PolicySource interface {
	PricingPolicy(ctx context.Context) pricing.Policy
}

// Notifier is told about orders after they commit
type Notifier interface {
	OrderPlaced(ctx context.Context, o *Order)
	OrderCancelled(ctx context.Context, o *Order)
}

// Service handles order business logic
type Service struct {
	repo     Repository
	products ProductLookup
	policy   PolicySource
	notifier Notifier
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a new order service. notifier may be nil.
func NewService(repo Repository, products ProductLookup, policy PolicySource, notifier Notifier, logger logrus.FieldLogger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		policy:   policy,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CheckoutItem is a requested order line
type CheckoutItem struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// CheckoutRequest represents order creation data
type CheckoutRequest struct {
	Items        []CheckoutItem `json:"items"`
	DeliveryType DeliveryType   `json:"deliveryType"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	Phone        string         `json:"phone"`
	Notes        string         `json:"notes"`
	PromoCode    string         `json:"promoCode"`
}

// StatusUpdate is an administrative status change
type StatusUpdate struct {
	Status Status `json:"status"`
	Note   string `json:"note"`
}

// AdminListParams represents the admin order list query
type AdminListParams struct {
	Page     int    `form:"page"`
	Limit    *int   `form:"limit"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
}

// Validate checks a checkout request
func (r CheckoutRequest) Validate() error {
	v := &apperror.ValidationError{}

	if len(r.Items) == 0 {
		v.Add("items", "Order must have at least one item")
	}
	for i, item := range r.Items {
		if item.ProductID == 0 {
			v.Add(fmt.Sprintf("items[%d].productId", i), "Product is required")
		}
		if item.Quantity < 1 {
			v.Add(fmt.Sprintf("items[%d].quantity", i), "Quantity must be at least 1")
		}
	}

	switch r.DeliveryType {
	case DeliveryTypeDelivery:
		if strings.TrimSpace(r.Address) == "" {
			v.Add("address", "Address is required for delivery")
		}
		if strings.TrimSpace(r.City) == "" {
			v.Add("city", "City is required for delivery")
		}
	case DeliveryTypePickup:
	default:
		v.Add("deliveryType", "Delivery type must be DELIVERY or PICKUP")
	}

	if utf8.RuneCountInString(strings.TrimSpace(r.Phone)) < 10 {
		v.Add("phone", "Valid phone number is required")
	}

	return v.OrNil()
}

// Checkout prices the request against the live catalog and places a PENDING
// order. A promo code that does not redeem is dropped and the order is placed
// at full price.
func (s *Service) Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.price(ctx, req.Items, req.DeliveryType, req.PromoCode)
	if err != nil {
		return nil, err
	}
	summary := quote.Summary
	now := s.now()

	placed := "Order placed"
	o := &Order{
		OrderNumber:   GenerateNumber(now),
		UserID:        userID,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		Subtotal:      summary.Subtotal,
		DeliveryFee:   summary.DeliveryFee,
		Discount:      summary.Discount,
		Total:         summary.Total,
		DeliveryType:  req.DeliveryType,
		Phone:         strings.TrimSpace(req.Phone),
		Items:         quote.Items,
		Timeline: []TimelineEntry{{
			Status:    StatusPending,
			Note:      &placed,
			ChangedBy: &userID,
			CreatedAt: now,
		}},
	}
	if req.DeliveryType == DeliveryTypeDelivery {
		o.Address = optional(req.Address)
		o.City = optional(req.City)
	}
	o.Notes = optional(req.Notes)

	var promoID *uint
	if quote.promo != nil {
		promoID = &quote.promo.ID
		o.PromoCode = &quote.promo.Code
	} else if quote.PromoError != nil {
		s.logger.WithFields(logrus.Fields{
			"promo_code": req.PromoCode,
			"reason":     *quote.PromoError,
		}).Debug("promo code not applied")
	}

	if err := s.repo.Create(ctx, o, promoID); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":     created.ID,
		"order_number": created.OrderNumber,
		"total":        created.Total.StringFixed(2),
	}).Info("order placed")

	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, created)
	}
	return created, nil
}

// Get retrieves an order by id
func (s *Service) Get(ctx context.Context, id uint) (*Order, error) {
	return s.repo.FindByID(ctx, id)
}

// GetForUser retrieves an order its owner may see. Admins see every order.
func (s *Service) GetForUser(ctx context.Context, id, userID uint, isAdmin bool) (*Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		// reported as missing so other customers' order ids are not confirmed
		return nil, apperror.NotFound("order")
	}
	return o, nil
}

// ListForUser returns the customer's own orders, newest first
func (s *Service) ListForUser(ctx context.Context, userID uint, query pagination.Query) (*pagination.Page[Order], error) {
	paging := query.Normalize(10, 50)
	orders, total, err := s.repo.List(ctx, ListFilter{UserID: userID, Paging: paging})
	if err != nil {
		return nil, err
	}
	return pagination.New(orders, total, paging), nil
}

// AdminList returns orders matching the admin filters
func (s *Service) AdminList(ctx context.Context, params AdminListParams) (*pagination.Page[Order], error) {
	filter := ListFilter{
		Search: params.Search,
		Paging: pagination.Query{Page: params.Page, Limit: params.Limit}.Normalize(20, 50),
	}

	if params.Status != "" && !strings.EqualFold(params.Status, "all") {
		status := Status(strings.ToUpper(params.Status))
		if !status.Valid() {
			return nil, apperror.NewValidation("status", "Unknown order status")
		}
		filter.Status = status
	}

	var err error
	if filter.DateFrom, err = parseDate(params.DateFrom, false); err != nil {
		return nil, apperror.NewValidation("dateFrom", "Date must be YYYY-MM-DD")
	}
	if filter.DateTo, err = parseDate(params.DateTo, true); err != nil {
		return nil, apperror.NewValidation("dateTo", "Date must be YYYY-MM-DD")
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pagination.New(orders, total, filter.Paging), nil
}

// UpdateStatus applies an administrative transition
func (s *Service) UpdateStatus(ctx context.Context, id uint, update StatusUpdate, actorID uint) (*Order, error) {
	to := Status(strings.ToUpper(string(update.Status)))
	note := strings.TrimSpace(update.Note)
	if note == "" {
		note = "Status updated to " + string(to)
	}

	o, err := s.repo.Update(ctx, id, nil, func(o *Order) (*TimelineEntry, error) {
		return o.Transition(to, note, &actorID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": o.ID,
		"status":   o.Status,
		"actor_id": actorID,
	}).Info("order status updated")

	if to == StatusCancelled && s.notifier != nil {
		s.notifier.OrderCancelled(ctx, o)
	}
	return o, nil
}

// CancelByCustomer lets the owner cancel an order that is still PENDING
func (s *Service) CancelByCustomer(ctx context.Context, id, userID uint) (*Order, error) {
	o, err := s.repo.Update(ctx, id, nil, func(o *Order) (*TimelineEntry, error) {
		if o.UserID != userID {
			return nil, apperror.NotFound("order")
		}
		if o.Status != StatusPending {
			return nil, apperror.Invalid("order can no longer be cancelled")
		}
		return o.Transition(StatusCancelled, "Cancelled by customer", &userID, s.now())
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderCancelled(ctx, o)
	}
	return o, nil
}

// ConfirmPayment marks the order paid and confirms it. A replayed event is
// reported as ErrDuplicateEvent and changes nothing; an order that already
// left PENDING keeps its status and timeline.
func (s *Service) ConfirmPayment(ctx context.Context, id uint, paymentID string, event ProcessedEvent) (*Order, error) {
	event.ProcessedAt = s.now()
	return s.repo.Update(ctx, id, &event, func(o *Order) (*TimelineEntry, error) {
		o.PaymentStatus = PaymentPaid
		o.PaymentID = &paymentID

		if o.Status != StatusPending {
			return nil, nil
		}
		return o.Transition(StatusConfirmed, fmt.Sprintf("Payment confirmed (%s)", paymentID), nil, event.ProcessedAt)
	})
}

// FailPayment records a failed payment; the order status is left alone
func (s *Service) FailPayment(ctx context.Context, id uint, paymentID string, event ProcessedEvent) (*Order, error) {
	event.ProcessedAt = s.now()
	return s.repo.Update(ctx, id, &event, func(o *Order) (*TimelineEntry, error) {
		if o.PaymentStatus == PaymentPaid {
			// a late failure for an earlier attempt must not undo a success
			return nil, nil
		}
		o.PaymentStatus = PaymentFailed
		o.PaymentID = &paymentID
		return nil, nil
	})
}

// redeemablePromo returns the promo to apply, or nil and the reason it does not apply
func (s *Service) redeemablePromo(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*PromoCode, string, error) {
	promo, err := s.repo.FindPromo(ctx, code)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, "Invalid promo code", nil
		}
		return nil, "", err
	}
	if !promo.Redeemable(now) {
		return nil, "Promo code has expired or is no longer available", nil
	}
	if !promo.Applies(subtotal) {
		return nil, fmt.Sprintf("Minimum order of %s required", promo.MinOrder.Decimal.StringFixed(2)), nil
	}
	return promo, "", nil
}

// mergeLines folds repeated products into one line, keeping first-seen order
func mergeLines(items []CheckoutItem) []CheckoutItem {
	index := make(map[uint]int, len(items))
	out := make([]CheckoutItem, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseDate reads YYYY-MM-DD; endOfDay moves the bound to the last instant of that day
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
