package usecase

import (
	"context"
	"time"

	"edushare/internal/domain"
)

type ItemValidator interface {
	Validate(ctx context.Context, requests []domain.ItemRequest) ([]domain.LineItem, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindByOwnerID(ctx context.Context, ownerID int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint, from, to domain.OrderStatus, updatedAt time.Time) (*domain.Order, error)
}

type EventPublisher interface {
	PublishCreated(ctx context.Context, order *domain.Order) error
	PublishStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error
}

type Metrics interface {
	ObserveOrderCreated()
	ObserveTransition(from, to string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveOrderCreated()            {}
func (nopMetrics) ObserveTransition(string, string) {}
