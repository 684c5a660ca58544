package product

import (
	"context"

	"edushare/internal/domain"
)

type UseCase interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id int) (*ProductDTO, error)
	SearchProducts(ctx context.Context, req SearchProductsRequest) (*SearchProductsResponse, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id int) error
}

type Service interface {
	GetProductsByIDs(ctx context.Context, ids []int) (found []domain.Product, notFoundIDs []int, err error)
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error)
}

type Repository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
}
