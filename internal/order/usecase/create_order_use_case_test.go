package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
)

// Mock implementations
type mockItemValidator struct {
	ValidateFunc func(ctx context.Context, requests []domain.ItemRequest) ([]domain.LineItem, error)
	calls        int
}

func (m *mockItemValidator) Validate(ctx context.Context, requests []domain.ItemRequest) ([]domain.LineItem, error) {
	m.calls++
	return m.ValidateFunc(ctx, requests)
}

type mockOrderRepository struct {
	CreateFunc        func(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByIDFunc      func(ctx context.Context, id uint) (*domain.Order, error)
	FindByOwnerIDFunc func(ctx context.Context, ownerID int) ([]domain.Order, error)
	UpdateStatusFunc  func(ctx context.Context, id uint, from, to domain.OrderStatus, updatedAt time.Time) (*domain.Order, error)
	createCalls       int
	updateCalls       int
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	m.createCalls++
	return m.CreateFunc(ctx, order)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderRepository) FindByOwnerID(ctx context.Context, ownerID int) ([]domain.Order, error) {
	return m.FindByOwnerIDFunc(ctx, ownerID)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.OrderStatus, updatedAt time.Time) (*domain.Order, error) {
	m.updateCalls++
	return m.UpdateStatusFunc(ctx, id, from, to, updatedAt)
}

type mockPublisher struct {
	created []*domain.Order
	changed []domain.OrderStatus
	err     error
}

func (m *mockPublisher) PublishCreated(ctx context.Context, order *domain.Order) error {
	m.created = append(m.created, order)
	return m.err
}

func (m *mockPublisher) PublishStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error {
	m.changed = append(m.changed, previous)
	return m.err
}

// Helper to create CreateOrderUseCase with test defaults
func newTestCreateOrderUseCase(v ItemValidator, repo OrderRepository, pub EventPublisher) *CreateOrderUseCase {
	uc := NewCreateOrderUseCase(v, repo, pub, nil, zap.NewNop(), time.Second)
	uc.nowFunc = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }
	return uc
}

func echoRepository() *mockOrderRepository {
	return &mockOrderRepository{
		CreateFunc: func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
			saved := *order
			saved.ID = 1
			return &saved, nil
		},
	}
}

func catalogValidator(prices map[int]int64) *mockItemValidator {
	return &mockItemValidator{
		ValidateFunc: func(ctx context.Context, requests []domain.ItemRequest) ([]domain.LineItem, error) {
			items := make([]domain.LineItem, 0, len(requests))
			for _, r := range requests {
				items = append(items, domain.LineItem{
					ItemID:    r.ItemID,
					Name:      "item",
					UnitPrice: decimal.NewFromInt(prices[r.ItemID]),
					Quantity:  r.Quantity,
				})
			}
			return items, nil
		},
	}
}

// Tests

func TestCreateOrder_Success(t *testing.T) {
	repo := echoRepository()
	pub := &mockPublisher{}
	uc := newTestCreateOrderUseCase(catalogValidator(map[int]int64{1: 10, 2: 25}), repo, pub)

	order, err := uc.CreateOrder(context.Background(), 42, []domain.ItemRequest{
		{ItemID: 1, Quantity: 2},
		{ItemID: 2, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, uint(1), order.ID)
	assert.Equal(t, 42, order.OwnerID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "45", order.TotalAmount.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, 1, order.Items[0].ItemID)
	assert.Equal(t, 2, order.Items[1].ItemID)
	assert.Equal(t, time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC), order.CreatedAt)
	assert.Equal(t, 1, repo.createCalls)
	assert.Len(t, pub.created, 1)
}

func TestCreateOrder_SingleItemExample(t *testing.T) {
	repo := echoRepository()
	uc := newTestCreateOrderUseCase(catalogValidator(map[int]int64{1: 10}), repo, &mockPublisher{})

	order, err := uc.CreateOrder(context.Background(), 5, []domain.ItemRequest{{ItemID: 1, Quantity: 2}})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].ItemID)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	v := &mockItemValidator{}
	repo := &mockOrderRepository{}
	uc := newTestCreateOrderUseCase(v, repo, &mockPublisher{})

	_, err := uc.CreateOrder(context.Background(), 1, nil)

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "items", ve.Details[0].Field)
	assert.Equal(t, 0, v.calls)
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateOrder_NonPositiveQuantity(t *testing.T) {
	v := &mockItemValidator{}
	repo := &mockOrderRepository{}
	uc := newTestCreateOrderUseCase(v, repo, &mockPublisher{})

	_, err := uc.CreateOrder(context.Background(), 1, []domain.ItemRequest{
		{ItemID: 1, Quantity: 1},
		{ItemID: 2, Quantity: 0},
		{ItemID: 0, Quantity: -1},
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 3)
	assert.Equal(t, "items[1].quantity", ve.Details[0].Field)
	assert.Equal(t, 0, v.calls)
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateOrder_UnavailableItemPersistsNothing(t *testing.T) {
	unavailable := apperrors.NewItemUnavailableError(1, "Product A", 100, 5)
	v := &mockItemValidator{
		ValidateFunc: func(ctx context.Context, requests []domain.ItemRequest) ([]domain.LineItem, error) {
			return nil, unavailable
		},
	}
	repo := &mockOrderRepository{}
	pub := &mockPublisher{}
	uc := newTestCreateOrderUseCase(v, repo, pub)

	order, err := uc.CreateOrder(context.Background(), 1, []domain.ItemRequest{{ItemID: 1, Quantity: 100}})

	assert.Nil(t, order)
	assert.Same(t, unavailable, err)
	assert.Equal(t, 0, repo.createCalls)
	assert.Empty(t, pub.created)
}

func TestCreateOrder_LookupErrorPropagatesVerbatim(t *testing.T) {
	lookupErr := apperrors.NewDependencyError(3, errors.New("connection refused"))
	v := &mockItemValidator{
		ValidateFunc: func(ctx context.Context, requests []domain.ItemRequest) ([]domain.LineItem, error) {
			return nil, lookupErr
		},
	}
	repo := &mockOrderRepository{}
	uc := newTestCreateOrderUseCase(v, repo, &mockPublisher{})

	_, err := uc.CreateOrder(context.Background(), 1, []domain.ItemRequest{
		{ItemID: 1, Quantity: 1}, {ItemID: 3, Quantity: 1},
	})

	assert.Same(t, lookupErr, err)
	assert.Contains(t, err.Error(), "3")
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateOrder_PersistenceFailure(t *testing.T) {
	repo := &mockOrderRepository{
		CreateFunc: func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
			return nil, errors.New("connection reset")
		},
	}
	pub := &mockPublisher{}
	uc := newTestCreateOrderUseCase(catalogValidator(map[int]int64{1: 10}), repo, pub)

	_, err := uc.CreateOrder(context.Background(), 1, []domain.ItemRequest{{ItemID: 1, Quantity: 1}})

	pe, ok := apperrors.IsPersistenceError(err)
	require.True(t, ok)
	assert.Contains(t, pe.Error(), "connection reset")

	_, isValidation := apperrors.IsValidationError(err)
	assert.False(t, isValidation)
	assert.Empty(t, pub.created)
}

func TestCreateOrder_CancelledBeforePersistence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	v := &mockItemValidator{
		ValidateFunc: func(_ context.Context, requests []domain.ItemRequest) ([]domain.LineItem, error) {
			cancel()
			return []domain.LineItem{{ItemID: 1, UnitPrice: decimal.NewFromInt(1), Quantity: 1}}, nil
		},
	}
	repo := &mockOrderRepository{}
	uc := newTestCreateOrderUseCase(v, repo, &mockPublisher{})

	_, err := uc.CreateOrder(ctx, 1, []domain.ItemRequest{{ItemID: 1, Quantity: 1}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateOrder_PersistenceContextHasDeadline(t *testing.T) {
	repo := &mockOrderRepository{
		CreateFunc: func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			saved := *order
			return &saved, nil
		},
	}
	uc := newTestCreateOrderUseCase(catalogValidator(map[int]int64{1: 1}), repo, &mockPublisher{})

	_, err := uc.CreateOrder(context.Background(), 1, []domain.ItemRequest{{ItemID: 1, Quantity: 1}})
	require.NoError(t, err)
}

func TestCreateOrder_PublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	uc := newTestCreateOrderUseCase(catalogValidator(map[int]int64{1: 10}), echoRepository(), pub)

	order, err := uc.CreateOrder(context.Background(), 1, []domain.ItemRequest{{ItemID: 1, Quantity: 1}})

	require.NoError(t, err)
	assert.NotNil(t, order)
}
