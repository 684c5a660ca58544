package dto

import "edushare/internal/domain"

type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items" validate:"required,min=1,max=100,dive"`
}

type CreateOrderItem struct {
	ItemID   int `json:"itemId" validate:"gt=0"`
	Quantity int `json:"quantity" validate:"gt=0,lte=10000"`
}

func (r CreateOrderRequest) ItemRequests() []domain.ItemRequest {
	requests := make([]domain.ItemRequest, len(r.Items))
	for i, item := range r.Items {
		requests[i] = domain.ItemRequest{ItemID: item.ItemID, Quantity: item.Quantity}
	}
	return requests
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
