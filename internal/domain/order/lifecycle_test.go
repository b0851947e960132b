package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

func TestCanTransition_ForwardOnlyToSuccessor(t *testing.T) {
	tests := []struct {
		from, to Status
		delivery DeliveryType
		want     bool
	}{
		{StatusPending, StatusConfirmed, DeliveryTypeDelivery, true},
		{StatusConfirmed, StatusPreparing, DeliveryTypeDelivery, true},
		{StatusPreparing, StatusReady, DeliveryTypePickup, true},
		{StatusReady, StatusDelivered, DeliveryTypeDelivery, true},
		{StatusReady, StatusPickedUp, DeliveryTypePickup, true},

		{StatusPending, StatusPreparing, DeliveryTypeDelivery, false},
		{StatusPending, StatusDelivered, DeliveryTypeDelivery, false},
		{StatusReady, StatusPickedUp, DeliveryTypeDelivery, false},
		{StatusReady, StatusDelivered, DeliveryTypePickup, false},
		{StatusConfirmed, StatusPending, DeliveryTypeDelivery, false},
		{StatusPending, StatusPending, DeliveryTypeDelivery, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to)+"/"+string(tt.delivery), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to, tt.delivery))
		})
	}
}

func TestCanTransition_Cancellation(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady} {
		assert.True(t, CanTransition(from, StatusCancelled, DeliveryTypeDelivery), from)
	}
	for _, from := range []Status{StatusDelivered, StatusPickedUp, StatusCancelled} {
		assert.False(t, CanTransition(from, StatusCancelled, DeliveryTypeDelivery), from)
		assert.True(t, from.IsTerminal())
	}
}

func TestCanTransition_NoExitFromCancelled(t *testing.T) {
	for _, to := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusPickedUp} {
		assert.False(t, CanTransition(StatusCancelled, to, DeliveryTypeDelivery), to)
	}
}

func TestTransition_ReturnsMatchingEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	actor := uint(9)
	o := &Order{ID: 4, Status: StatusConfirmed, DeliveryType: DeliveryTypeDelivery}

	entry, err := o.Transition(StatusPreparing, "in the kitchen", &actor, now)

	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, o.Status)
	assert.Equal(t, o.Status, entry.Status)
	assert.Equal(t, uint(4), entry.OrderID)
	require.NotNil(t, entry.Note)
	assert.Equal(t, "in the kitchen", *entry.Note)
	assert.Equal(t, &actor, entry.ChangedBy)
	assert.Equal(t, now, entry.CreatedAt)
}

func TestTransition_RejectedLeavesOrderUntouched(t *testing.T) {
	o := &Order{Status: StatusPending, DeliveryType: DeliveryTypePickup}

	entry, err := o.Transition(StatusReady, "", nil, time.Now())

	assert.Nil(t, entry)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, StatusPending, o.Status)

	_, err = o.Transition(Status("SHIPPED"), "", nil, time.Now())
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestNextStatuses(t *testing.T) {
	pickup := &Order{Status: StatusReady, DeliveryType: DeliveryTypePickup}
	assert.Equal(t, []Status{StatusPickedUp, StatusCancelled}, pickup.NextStatuses())

	done := &Order{Status: StatusDelivered, DeliveryType: DeliveryTypeDelivery}
	assert.Empty(t, done.NextStatuses())
}

func TestTransition_TerminalOrderIsFinal(t *testing.T) {
	o := &Order{Status: StatusPickedUp, DeliveryType: DeliveryTypePickup}

	_, err := o.Transition(StatusCancelled, "", nil, time.Now())

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Order is already PICKED_UP and can no longer change", verr.Fields["status"])
}

func TestAdminView(t *testing.T) {
	o := &Order{ID: 3, Status: StatusConfirmed, DeliveryType: DeliveryTypeDelivery}

	view := o.AdminView()

	assert.Same(t, o, view.Order)
	assert.Equal(t, []Status{StatusPreparing, StatusCancelled}, view.NextStatuses)
	assert.Equal(t, []Status{}, (&Order{Status: StatusCancelled}).AdminView().NextStatuses)
}
