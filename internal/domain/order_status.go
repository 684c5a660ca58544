package domain

import (
	"fmt"

	apperrors "edushare/internal/errors"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus accepts only the known lifecycle values.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// AllowedTransitions returns the statuses reachable in one step from s.
// Terminal and unknown statuses return an empty slice.
func AllowedTransitions(s OrderStatus) []OrderStatus {
	switch s {
	case OrderStatusPending:
		return []OrderStatus{OrderStatusConfirmed, OrderStatusCancelled}
	case OrderStatusConfirmed:
		return []OrderStatus{OrderStatusProcessing, OrderStatusCancelled}
	case OrderStatusProcessing:
		return []OrderStatus{OrderStatusShipped, OrderStatusCancelled}
	case OrderStatusShipped:
		return []OrderStatus{OrderStatusDelivered}
	case OrderStatusDelivered, OrderStatusCancelled:
		return []OrderStatus{}
	}
	return []OrderStatus{}
}

// CanTransition is a pure membership test over the lifecycle table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range AllowedTransitions(from) {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

func newTransitionError(from, to OrderStatus) error {
	return apperrors.NewTransitionError(string(from), string(to))
}
