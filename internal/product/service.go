package product

import (
	"context"

	"github.com/shopspring/decimal"

	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
)

type productService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &productService{repo: repo}
}

func (s *productService) GetProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[int]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	var notFoundIDs []int
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}

func (s *productService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := checkAmounts(&p.Price, &p.Stock); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

// Update rejects unknown products before touching storage.
func (s *productService) Update(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := checkAmounts(patch.Price, patch.Stock); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

func checkAmounts(price *decimal.Decimal, stock *int) error {
	var details []apperrors.ValidationDetail
	if price != nil && price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "Price cannot be negative"})
	}
	if stock != nil && *stock < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "stock", Message: "Stock cannot be negative"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError(details[0].Message, details...)
	}
	return nil
}
