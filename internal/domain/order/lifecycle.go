// internal/domain/order/lifecycle.go
package order

import (
	"time"

	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

// Forward moves are to the immediate successor only. READY splits on the
// delivery type.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusPickedUp, StatusCancelled},
}

// CanTransition reports whether an order of the given delivery type may move
// from one status to another.
func CanTransition(from, to Status, deliveryType DeliveryType) bool {
	switch to {
	case StatusDelivered:
		if deliveryType != DeliveryTypeDelivery {
			return false
		}
	case StatusPickedUp:
		if deliveryType != DeliveryTypePickup {
			return false
		}
	}

	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from the order's current one
func (o *Order) NextStatuses() []Status {
	out := []Status{}
	for _, next := range transitions[o.Status] {
		if CanTransition(o.Status, next, o.DeliveryType) {
			out = append(out, next)
		}
	}
	return out
}

// AdminView is an order as the back-office sees it
type AdminView struct {
	*Order
	NextStatuses []Status `json:"nextStatuses"`
}

// AdminView pairs the order with the statuses an admin may move it to
func (o *Order) AdminView() AdminView {
	return AdminView{Order: o, NextStatuses: o.NextStatuses()}
}

// Transition moves the order to status and returns the timeline entry that
// records it. The caller persists both together.
func (o *Order) Transition(to Status, note string, actor *uint, now time.Time) (*TimelineEntry, error) {
	if !to.Valid() {
		return nil, apperror.NewValidation("status", "Unknown order status")
	}
	if o.Status.IsTerminal() {
		return nil, apperror.NewValidation("status", "Order is already "+string(o.Status)+" and can no longer change")
	}
	if !CanTransition(o.Status, to, o.DeliveryType) {
		return nil, apperror.NewValidation("status", "Cannot change order status from "+string(o.Status)+" to "+string(to))
	}

	o.Status = to
	o.UpdatedAt = now

	entry := &TimelineEntry{
		OrderID:   o.ID,
		Status:    to,
		ChangedBy: actor,
		CreatedAt: now,
	}
	if note != "" {
		entry.Note = &note
	}
	return entry, nil
}
