package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"edushare/internal/domain"
)

type OrderResponse struct {
	ID          uint              `json:"id"`
	UserID      int               `json:"userId"`
	Items       []domain.LineItem `json:"items"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func NewOrderResponse(o *domain.Order) OrderResponse {
	items := o.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return OrderResponse{
		ID:          o.ID,
		UserID:      o.OwnerID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = NewOrderResponse(&orders[i])
	}
	return out
}
