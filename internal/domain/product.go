package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a didactic material listed in the catalog. Stock doubles as the
// availability counter.
type Product struct {
	ID          int
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Product) IsAvailable() bool {
	return p.Stock > 0
}

func (p Product) CanFulfill(quantity int) bool {
	return p.Stock >= quantity
}

// ProductFilter narrows a catalog listing. Zero values mean no constraint.
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Limit    int
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Category    *string
	ImageURL    *string
	UpdatedAt   time.Time
}
