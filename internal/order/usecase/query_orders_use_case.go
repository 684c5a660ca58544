package usecase

import (
	"context"

	"edushare/internal/auth"
	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
)

type QueryOrdersUseCase struct {
	orderRepo OrderRepository
}

func NewQueryOrdersUseCase(orderRepo OrderRepository) *QueryOrdersUseCase {
	return &QueryOrdersUseCase{orderRepo: orderRepo}
}

// GetOrder returns the order if caller owns it or is an admin.
func (uc *QueryOrdersUseCase) GetOrder(ctx context.Context, caller auth.Identity, id uint) (*domain.Order, error) {
	order, err := findOrder(ctx, uc.orderRepo, id)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(caller.ID) && !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("access denied")
	}
	return order, nil
}

// ListMyOrders returns the caller's orders, newest first.
func (uc *QueryOrdersUseCase) ListMyOrders(ctx context.Context, caller auth.Identity) ([]domain.Order, error) {
	orders, err := uc.orderRepo.FindByOwnerID(ctx, caller.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list shares", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
