package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"edushare/internal/auth"
	"edushare/internal/domain"
	"edushare/internal/dto"
	apperrors "edushare/internal/errors"
)

type CreateOrderUseCase interface {
	CreateOrder(ctx context.Context, ownerID int, requests []domain.ItemRequest) (*domain.Order, error)
}

type TransitionStatusUseCase interface {
	TransitionStatus(ctx context.Context, caller auth.Identity, orderID uint, target string) (*domain.Order, error)
}

type QueryOrdersUseCase interface {
	GetOrder(ctx context.Context, caller auth.Identity, id uint) (*domain.Order, error)
	ListMyOrders(ctx context.Context, caller auth.Identity) ([]domain.Order, error)
}

type OrderController struct {
	create     CreateOrderUseCase
	transition TransitionStatusUseCase
	query      QueryOrdersUseCase
	logger     *zap.Logger
}

func NewOrderController(create CreateOrderUseCase, transition TransitionStatusUseCase, query QueryOrdersUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		create:     create,
		transition: transition,
		query:      query,
		logger:     logger,
	}
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := c.caller(w, r, traceID)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeInvalidBody(w, traceID)
		return
	}

	if err := dto.Validate(req); err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	order, err := c.create.CreateOrder(r.Context(), caller.ID, req.ItemRequests())
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.Envelope{
		Success: true,
		Message: "Share created successfully",
		Data:    dto.NewOrderResponse(order),
	})
}

func (c *OrderController) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := c.caller(w, r, traceID)
	if !ok {
		return
	}

	orders, err := c.query.ListMyOrders(r.Context(), caller)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Data: dto.NewOrderListResponse(orders)})
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := c.caller(w, r, traceID)
	if !ok {
		return
	}

	orderID, ok := c.orderID(w, r, traceID, logger)
	if !ok {
		return
	}

	order, err := c.query.GetOrder(r.Context(), caller, orderID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Data: dto.NewOrderResponse(order)})
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := c.caller(w, r, traceID)
	if !ok {
		return
	}

	orderID, ok := c.orderID(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeInvalidBody(w, traceID)
		return
	}

	if err := dto.Validate(req); err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	order, err := c.transition.TransitionStatus(r.Context(), caller, orderID, req.Status)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Envelope{
		Success: true,
		Message: "Share status updated",
		Data:    dto.NewOrderResponse(order),
	})
}

func (c *OrderController) caller(w http.ResponseWriter, r *http.Request, traceID string) (auth.Identity, bool) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		c.writeError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "No token provided", nil)
		return auth.Identity{}, false
	}
	return identity, true
}

func (c *OrderController) orderID(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		logger.Warn("invalid share id in path", zap.String("id", raw))
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid share id", []apperrors.ValidationDetail{{
			Field:   "id",
			Message: "id must be a positive integer",
		}})
		return 0, false
	}
	return uint(id), true
}

func (c *OrderController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details)
		return
	}

	if _, ok := apperrors.IsUnauthorizedError(err); ok {
		c.writeError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeError(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}

	if te, ok := apperrors.IsTransitionError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "ILLEGAL_TRANSITION", err.Error(), []apperrors.ValidationDetail{{
			Field:   "status",
			Message: "allowed from " + te.From + ": " + allowedList(domain.OrderStatus(te.From)),
		}})
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), nil)
		return
	}

	if ie, ok := apperrors.IsItemUnavailableError(err); ok {
		c.writeError(w, traceID, http.StatusUnprocessableEntity, "ITEM_UNAVAILABLE", err.Error(), []apperrors.ValidationDetail{{
			Field:   "itemId",
			Message: strconv.Itoa(ie.ItemID),
		}})
		return
	}

	if de, ok := apperrors.IsDependencyError(err); ok {
		logger.Warn("catalog lookup failed", zap.Int("itemId", de.ItemID), zap.Error(err))
		c.writeError(w, traceID, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsPersistenceError(err); ok {
		logger.Error("persistence failed", zap.Error(err))
		c.writeError(w, traceID, http.StatusServiceUnavailable, "PERSISTENCE_ERROR", "failed to persist share", nil)
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Info("request abandoned before completion", zap.Error(err))
		c.writeError(w, traceID, http.StatusServiceUnavailable, "REQUEST_CANCELLED", "request was cancelled", nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}

func allowedList(from domain.OrderStatus) string {
	allowed := domain.AllowedTransitions(from)
	if len(allowed) == 0 {
		return "none"
	}
	names := make([]string, len(allowed))
	for i, st := range allowed {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

func (c *OrderController) writeInvalidBody(w http.ResponseWriter, traceID string) {
	c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", []apperrors.ValidationDetail{{
		Field:   "body",
		Message: "request body must be valid JSON",
	}})
}

func (c *OrderController) writeError(w http.ResponseWriter, traceID string, status int, code, message string, details []apperrors.ValidationDetail) {
	c.writeJSON(w, status, dto.ErrorResponse{
		Success: false,
		TraceID: traceID,
		Code:    code,
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
