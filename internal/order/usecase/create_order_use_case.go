package usecase

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
)

type CreateOrderUseCase struct {
	validator          ItemValidator
	orderRepo          OrderRepository
	publisher          EventPublisher
	metrics            Metrics
	logger             *zap.Logger
	persistenceTimeout time.Duration
	nowFunc            func() time.Time
}

func NewCreateOrderUseCase(
	validator ItemValidator,
	orderRepo OrderRepository,
	publisher EventPublisher,
	metrics Metrics,
	logger *zap.Logger,
	persistenceTimeout time.Duration,
) *CreateOrderUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &CreateOrderUseCase{
		validator:          validator,
		orderRepo:          orderRepo,
		publisher:          publisher,
		metrics:            metrics,
		logger:             logger,
		persistenceTimeout: persistenceTimeout,
		nowFunc:            time.Now,
	}
}

// CreateOrder validates every requested item against the catalog, prices
// the order and persists it as pending. Nothing is written unless every
// item validates.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, ownerID int, requests []domain.ItemRequest) (*domain.Order, error) {
	if err := validateItemRequests(requests); err != nil {
		return nil, err
	}

	uc.logger.Info("create share started", zap.Int("ownerId", ownerID), zap.Int("itemCount", len(requests)))

	items, err := uc.validator.Validate(ctx, requests)
	if err != nil {
		return nil, err
	}

	total := domain.CalculateTotal(items)

	// A request abandoned before this point must not persist anything.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.persistenceTimeout)
	defer cancel()

	order, err := uc.orderRepo.Create(persistCtx, domain.NewOrder(ownerID, items, total, uc.nowFunc().UTC()))
	if err != nil {
		uc.logger.Error("failed to persist share", zap.Int("ownerId", ownerID), zap.Error(err))
		return nil, apperrors.NewPersistenceError("failed to save share", err)
	}

	uc.metrics.ObserveOrderCreated()
	uc.logger.Info("share created",
		zap.Uint("shareId", order.ID),
		zap.Int("ownerId", ownerID),
		zap.String("totalAmount", order.TotalAmount.String()),
	)

	if err := uc.publisher.PublishCreated(persistCtx, order); err != nil {
		uc.logger.Warn("failed to publish share created event", zap.Uint("shareId", order.ID), zap.Error(err))
	}

	return order, nil
}

func validateItemRequests(requests []domain.ItemRequest) error {
	if len(requests) == 0 {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	var details []apperrors.ValidationDetail
	for idx, req := range requests {
		if req.ItemID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].itemId",
				Message: "itemId must be a positive integer",
			})
		}
		if req.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be a positive integer",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
