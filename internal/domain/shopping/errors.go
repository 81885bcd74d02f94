package shopping

import "errors"

// Domain errors for cart and order operations

var (
	ErrEmptyItemName           = errors.New("item name is required")
	ErrItemNotFound            = errors.New("item not found in cart")
	ErrEmptyOrder              = errors.New("cannot place an order from an empty cart")
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)
