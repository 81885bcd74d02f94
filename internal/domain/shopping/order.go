package shopping

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks the linear fulfillment progression of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderProgression = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusConfirmed,
	OrderStatusConfirmed: OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusCompleted,
}

// IsTerminal reports whether the status ends the order lifecycle.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order is an immutable snapshot of the cart at the moment it was placed.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []Item      `json:"items"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
}

// NewOrder snapshots the given items into a pending order.
func NewOrder(items []Item, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	snapshot := make([]Item, len(items))
	copy(snapshot, items)

	var total float64
	for _, item := range snapshot {
		total += item.Price
	}

	return &Order{
		ID:        uuid.New(),
		CreatedAt: now,
		Items:     snapshot,
		Total:     total,
		Status:    OrderStatusPending,
	}, nil
}

// Advance moves the order to the next status in the progression.
func (o *Order) Advance() error {
	next, ok := orderProgression[o.Status]
	if !ok {
		return ErrInvalidStatusTransition
	}
	o.Status = next
	return nil
}

// Cancel cancels the order. Cancellation is allowed from any
// non-terminal state.
func (o *Order) Cancel() error {
	if o.Status.IsTerminal() {
		return ErrInvalidStatusTransition
	}
	o.Status = OrderStatusCancelled
	return nil
}
