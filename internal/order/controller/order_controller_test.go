package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edushare/internal/auth"
	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
)

// Mock implementations
type mockCreateUseCase struct {
	CreateOrderFunc func(ctx context.Context, ownerID int, requests []domain.ItemRequest) (*domain.Order, error)
	calls           int
}

func (m *mockCreateUseCase) CreateOrder(ctx context.Context, ownerID int, requests []domain.ItemRequest) (*domain.Order, error) {
	m.calls++
	return m.CreateOrderFunc(ctx, ownerID, requests)
}

type mockTransitionUseCase struct {
	TransitionStatusFunc func(ctx context.Context, caller auth.Identity, orderID uint, target string) (*domain.Order, error)
}

func (m *mockTransitionUseCase) TransitionStatus(ctx context.Context, caller auth.Identity, orderID uint, target string) (*domain.Order, error) {
	return m.TransitionStatusFunc(ctx, caller, orderID, target)
}

type mockQueryUseCase struct {
	GetOrderFunc     func(ctx context.Context, caller auth.Identity, id uint) (*domain.Order, error)
	ListMyOrdersFunc func(ctx context.Context, caller auth.Identity) ([]domain.Order, error)
}

func (m *mockQueryUseCase) GetOrder(ctx context.Context, caller auth.Identity, id uint) (*domain.Order, error) {
	return m.GetOrderFunc(ctx, caller, id)
}

func (m *mockQueryUseCase) ListMyOrders(ctx context.Context, caller auth.Identity) ([]domain.Order, error) {
	return m.ListMyOrdersFunc(ctx, caller)
}

type responseBody struct {
	Success bool            `json:"success"`
	TraceID string          `json:"traceId"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details []apperrors.ValidationDetail
}

var caller = auth.Identity{ID: 42, Email: "ana@example.com", Role: "user"}

func newTestRouter(ctrl *OrderController, identity *auth.Identity) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if identity != nil {
				req = req.WithContext(auth.WithIdentity(req.Context(), *identity))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/api/orders", ctrl.CreateOrder)
	r.Get("/api/orders/my-orders", ctrl.ListMyOrders)
	r.Get("/api/orders/{id}", ctrl.GetOrder)
	r.Patch("/api/orders/{id}/status", ctrl.UpdateStatus)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, responseBody) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var parsed responseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func sampleOrder(status domain.OrderStatus) *domain.Order {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Order{
		ID:          7,
		OwnerID:     42,
		Items:       []domain.LineItem{{ItemID: 1, Name: "Atlas", UnitPrice: decimal.NewFromInt(10), Quantity: 2}},
		TotalAmount: decimal.NewFromInt(20),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newController(create *mockCreateUseCase, transition *mockTransitionUseCase, query *mockQueryUseCase) *OrderController {
	return NewOrderController(create, transition, query, zap.NewNop())
}

func TestCreateOrder_Created(t *testing.T) {
	create := &mockCreateUseCase{
		CreateOrderFunc: func(ctx context.Context, ownerID int, requests []domain.ItemRequest) (*domain.Order, error) {
			assert.Equal(t, 42, ownerID)
			assert.Equal(t, []domain.ItemRequest{{ItemID: 1, Quantity: 2}}, requests)
			return sampleOrder(domain.OrderStatusPending), nil
		},
	}
	h := newTestRouter(newController(create, nil, nil), &caller)

	rec, body := do(t, h, http.MethodPost, "/api/orders", `{"items":[{"itemId":1,"quantity":2}]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body.Success)

	var data map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "20", data["totalAmount"])
	assert.EqualValues(t, 42, data["userId"])
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	create := &mockCreateUseCase{}
	h := newTestRouter(newController(create, nil, nil), &caller)

	rec, body := do(t, h, http.MethodPost, "/api/orders", `{"items":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.NotEmpty(t, body.TraceID)
	assert.Equal(t, 0, create.calls)
}

func TestCreateOrder_EmptyItemsRejectedBeforeUseCase(t *testing.T) {
	create := &mockCreateUseCase{}
	h := newTestRouter(newController(create, nil, nil), &caller)

	rec, body := do(t, h, http.MethodPost, "/api/orders", `{"items":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "items", body.Details[0].Field)
	assert.Equal(t, 0, create.calls)
}

func TestCreateOrder_NoIdentity(t *testing.T) {
	h := newTestRouter(newController(&mockCreateUseCase{}, nil, nil), nil)

	rec, body := do(t, h, http.MethodPost, "/api/orders", `{"items":[{"itemId":1,"quantity":1}]}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestCreateOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unavailable", apperrors.NewItemUnavailableError(1, "Atlas", 5, 2), http.StatusUnprocessableEntity, "ITEM_UNAVAILABLE"},
		{"dependency", apperrors.NewDependencyError(1, errors.New("timeout")), http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"persistence", apperrors.NewPersistenceError("failed to save share", errors.New("down")), http.StatusServiceUnavailable, "PERSISTENCE_ERROR"},
		{"validation", apperrors.NewValidationError("validation failed"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, "REQUEST_CANCELLED"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create := &mockCreateUseCase{
				CreateOrderFunc: func(ctx context.Context, ownerID int, requests []domain.ItemRequest) (*domain.Order, error) {
					return nil, tt.err
				},
			}
			h := newTestRouter(newController(create, nil, nil), &caller)

			rec, body := do(t, h, http.MethodPost, "/api/orders", `{"items":[{"itemId":1,"quantity":5}]}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, body.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestListMyOrders(t *testing.T) {
	query := &mockQueryUseCase{
		ListMyOrdersFunc: func(ctx context.Context, c auth.Identity) ([]domain.Order, error) {
			assert.Equal(t, 42, c.ID)
			return []domain.Order{}, nil
		},
	}
	h := newTestRouter(newController(nil, nil, query), &caller)

	rec, body := do(t, h, http.MethodGet, "/api/orders/my-orders", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(body.Data))
}

func TestGetOrder(t *testing.T) {
	query := &mockQueryUseCase{
		GetOrderFunc: func(ctx context.Context, c auth.Identity, id uint) (*domain.Order, error) {
			assert.Equal(t, uint(7), id)
			return sampleOrder(domain.OrderStatusPending), nil
		},
	}
	h := newTestRouter(newController(nil, nil, query), &caller)

	rec, body := do(t, h, http.MethodGet, "/api/orders/7", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestGetOrder_InvalidID(t *testing.T) {
	h := newTestRouter(newController(nil, nil, &mockQueryUseCase{}), &caller)

	rec, body := do(t, h, http.MethodGet, "/api/orders/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id", body.Details[0].Field)
}

func TestGetOrder_NotFoundAndForbidden(t *testing.T) {
	query := &mockQueryUseCase{
		GetOrderFunc: func(ctx context.Context, c auth.Identity, id uint) (*domain.Order, error) {
			if id == 1 {
				return nil, apperrors.NewNotFoundError("Share not found")
			}
			return nil, apperrors.NewForbiddenError("access denied")
		},
	}
	h := newTestRouter(newController(nil, nil, query), &caller)

	rec, body := do(t, h, http.MethodGet, "/api/orders/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Share not found", body.Message)

	rec, body = do(t, h, http.MethodGet, "/api/orders/2", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", body.Code)
}

func TestUpdateStatus(t *testing.T) {
	transition := &mockTransitionUseCase{
		TransitionStatusFunc: func(ctx context.Context, c auth.Identity, orderID uint, target string) (*domain.Order, error) {
			assert.Equal(t, uint(7), orderID)
			assert.Equal(t, "confirmed", target)
			return sampleOrder(domain.OrderStatusConfirmed), nil
		},
	}
	h := newTestRouter(newController(nil, transition, nil), &caller)

	rec, body := do(t, h, http.MethodPatch, "/api/orders/7/status", `{"status":"confirmed"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "confirmed", data["status"])
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	transition := &mockTransitionUseCase{
		TransitionStatusFunc: func(ctx context.Context, c auth.Identity, orderID uint, target string) (*domain.Order, error) {
			return nil, apperrors.NewTransitionError("pending", "delivered")
		},
	}
	h := newTestRouter(newController(nil, transition, nil), &caller)

	rec, body := do(t, h, http.MethodPatch, "/api/orders/7/status", `{"status":"delivered"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ILLEGAL_TRANSITION", body.Code)
	assert.Equal(t, "cannot transition from pending to delivered", body.Message)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "allowed from pending: confirmed, cancelled", body.Details[0].Message)
}

func TestUpdateStatus_MissingStatus(t *testing.T) {
	h := newTestRouter(newController(nil, &mockTransitionUseCase{}, nil), &caller)

	rec, body := do(t, h, http.MethodPatch, "/api/orders/7/status", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status", body.Details[0].Field)
}

func TestUpdateStatus_Conflict(t *testing.T) {
	transition := &mockTransitionUseCase{
		TransitionStatusFunc: func(ctx context.Context, c auth.Identity, orderID uint, target string) (*domain.Order, error) {
			return nil, apperrors.NewConflictError("status changed concurrently")
		},
	}
	h := newTestRouter(newController(nil, transition, nil), &caller)

	rec, body := do(t, h, http.MethodPatch, "/api/orders/7/status", `{"status":"confirmed"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", body.Code)
}
