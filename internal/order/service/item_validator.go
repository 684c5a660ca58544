package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
	"edushare/internal/order/catalog"
)

type CatalogClient interface {
	GetItem(ctx context.Context, itemID int) (*catalog.Item, error)
}

type LookupObserver interface {
	ObserveCatalogLookup(outcome string)
}

const (
	lookupOK          = "ok"
	lookupUnavailable = "unavailable"
	lookupNotFound    = "not_found"
	lookupFailed      = "error"
)

type nopObserver struct{}

func (nopObserver) ObserveCatalogLookup(string) {}

// ItemValidator turns item requests into priced line items by asking the
// catalog about each one. Lookups run concurrently up to maxConcurrency;
// results keep input order and the reported error is the first failure in
// input order.
type ItemValidator struct {
	catalog        CatalogClient
	maxConcurrency int
	observer       LookupObserver
	logger         *zap.Logger
}

func NewItemValidator(catalog CatalogClient, maxConcurrency int, observer LookupObserver, logger *zap.Logger) *ItemValidator {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &ItemValidator{
		catalog:        catalog,
		maxConcurrency: maxConcurrency,
		observer:       observer,
		logger:         logger,
	}
}

func (v *ItemValidator) Validate(ctx context.Context, requests []domain.ItemRequest) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, len(requests))
	errs := make([]error, len(requests))

	var g errgroup.Group
	g.SetLimit(v.maxConcurrency)

	for i, req := range requests {
		g.Go(func() error {
			item, err := v.validateOne(ctx, req)
			if err != nil {
				errs[i] = err
				return nil
			}
			items[i] = *item
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			v.logger.Warn("item validation failed",
				zap.Int("index", i),
				zap.Int("itemId", requests[i].ItemID),
				zap.Int("quantity", requests[i].Quantity),
				zap.Error(err),
			)
			return nil, err
		}
	}

	return items, nil
}

func (v *ItemValidator) validateOne(ctx context.Context, req domain.ItemRequest) (*domain.LineItem, error) {
	item, err := v.catalog.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			v.observer.ObserveCatalogLookup(lookupNotFound)
		} else {
			v.observer.ObserveCatalogLookup(lookupFailed)
		}
		return nil, apperrors.NewDependencyError(req.ItemID, err)
	}

	if !item.IsAvailable || item.Stock < req.Quantity {
		v.observer.ObserveCatalogLookup(lookupUnavailable)
		return nil, apperrors.NewItemUnavailableError(req.ItemID, item.Name, req.Quantity, item.Stock)
	}

	v.observer.ObserveCatalogLookup(lookupOK)
	return &domain.LineItem{
		ItemID:    req.ItemID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  req.Quantity,
	}, nil
}
