package product

import (
	"context"
	"time"

	"edushare/internal/domain"
)

type catalogUseCase struct {
	service Service
	repo    Repository
	nowFunc func() time.Time
}

func NewUseCase(service Service, repo Repository) UseCase {
	return &catalogUseCase{service: service, repo: repo, nowFunc: time.Now}
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]ProductDTO, error) {
	products, err := uc.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toDTOs(products), nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id int) (*ProductDTO, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toDTO(*p)
	return &out, nil
}

func (uc *catalogUseCase) SearchProducts(ctx context.Context, req SearchProductsRequest) (*SearchProductsResponse, error) {
	found, notFoundIDs, err := uc.service.GetProductsByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	if notFoundIDs == nil {
		notFoundIDs = []int{}
	}

	return &SearchProductsResponse{
		Products: toDTOs(found),
		NotFound: notFoundIDs,
	}, nil
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	now := uc.nowFunc().UTC()
	p, err := uc.service.Create(ctx, &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	out := toDTO(*p)
	return &out, nil
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*ProductDTO, error) {
	p, err := uc.service.Update(ctx, id, domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		UpdatedAt:   uc.nowFunc().UTC(),
	})
	if err != nil {
		return nil, err
	}
	out := toDTO(*p)
	return &out, nil
}

func (uc *catalogUseCase) DeleteProduct(ctx context.Context, id int) error {
	return uc.repo.Delete(ctx, id)
}
