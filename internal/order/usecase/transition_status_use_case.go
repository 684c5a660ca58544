package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"edushare/internal/auth"
	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
)

type TransitionStatusUseCase struct {
	orderRepo          OrderRepository
	publisher          EventPublisher
	metrics            Metrics
	logger             *zap.Logger
	persistenceTimeout time.Duration
	nowFunc            func() time.Time
}

func NewTransitionStatusUseCase(
	orderRepo OrderRepository,
	publisher EventPublisher,
	metrics Metrics,
	logger *zap.Logger,
	persistenceTimeout time.Duration,
) *TransitionStatusUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &TransitionStatusUseCase{
		orderRepo:          orderRepo,
		publisher:          publisher,
		metrics:            metrics,
		logger:             logger,
		persistenceTimeout: persistenceTimeout,
		nowFunc:            time.Now,
	}
}

// TransitionStatus re-reads the order, checks the move against the status
// machine and writes it only if the stored status is still the one checked.
func (uc *TransitionStatusUseCase) TransitionStatus(ctx context.Context, caller auth.Identity, orderID uint, target string) (*domain.Order, error) {
	status, err := domain.ParseOrderStatus(target)
	if err != nil {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "status",
			Message: err.Error(),
		})
	}

	order, err := findOrder(ctx, uc.orderRepo, orderID)
	if err != nil {
		return nil, err
	}

	if !order.OwnedBy(caller.ID) && !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("access denied")
	}

	previous := order.Status
	if err := order.TransitionTo(status, uc.nowFunc().UTC()); err != nil {
		uc.logger.Info("transition rejected",
			zap.Uint("shareId", orderID),
			zap.String("from", string(previous)),
			zap.String("to", string(status)),
		)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.persistenceTimeout)
	defer cancel()

	updated, err := uc.orderRepo.UpdateStatus(persistCtx, orderID, previous, status, order.UpdatedAt)
	if err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			return nil, err
		}
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		uc.logger.Error("failed to update share status", zap.Uint("shareId", orderID), zap.Error(err))
		return nil, apperrors.NewPersistenceError("failed to update share status", err)
	}

	uc.metrics.ObserveTransition(string(previous), string(status))
	uc.logger.Info("share status changed",
		zap.Uint("shareId", orderID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.Int("callerId", caller.ID),
	)

	if err := uc.publisher.PublishStatusChanged(persistCtx, updated, previous); err != nil {
		uc.logger.Warn("failed to publish status changed event", zap.Uint("shareId", orderID), zap.Error(err))
	}

	return updated, nil
}

func findOrder(ctx context.Context, repo OrderRepository, id uint) (*domain.Order, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError("Share not found")
		}
		return nil, apperrors.NewPersistenceError("failed to load share", err)
	}
	return order, nil
}
