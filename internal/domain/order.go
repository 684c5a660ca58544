package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a share of catalog items requested by one owner.
type Order struct {
	ID          uint
	OwnerID     int
	Items       []LineItem
	TotalAmount decimal.Decimal
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LineItem is a priced snapshot of a catalog entry taken at validation time.
type LineItem struct {
	ItemID    int             `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// ItemRequest is what a caller asks for before validation.
type ItemRequest struct {
	ItemID   int
	Quantity int
}

// NewOrder builds a pending order. Callers must pass validated items and
// the total computed from them.
func NewOrder(ownerID int, items []LineItem, total decimal.Decimal, now time.Time) *Order {
	return &Order{
		OwnerID:     ownerID,
		Items:       items,
		TotalAmount: total,
		Status:      OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TransitionTo moves the order to target when the status machine allows it.
// On failure the order is left unmodified.
func (o *Order) TransitionTo(target OrderStatus, now time.Time) error {
	if !CanTransition(o.Status, target) {
		return newTransitionError(o.Status, target)
	}
	o.Status = target
	o.UpdatedAt = now
	return nil
}

// OwnedBy reports whether userID created the order.
func (o *Order) OwnedBy(userID int) bool {
	return o.OwnerID == userID
}
