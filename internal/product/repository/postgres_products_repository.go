package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
)

const pgProductColumns = `id, name, COALESCE(description, ''), price::text, stock,
	COALESCE(category, ''), COALESCE(image_url, ''), created_at, updated_at`

// PostgresRepository reads and writes the snake_case products table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	p, err := scanPgProduct(r.pool.QueryRow(ctx, `SELECT `+pgProductColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		conditions = append(conditions, "category = "+next(filter.Category))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= "+next(filter.MinPrice.String())+"::numeric")
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= "+next(filter.MaxPrice.String())+"::numeric")
	}

	query := `SELECT ` + pgProductColumns + ` FROM products`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + next(filter.Limit)
	}

	return r.queryProducts(ctx, query, args...)
}

func (r *PostgresRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryProducts(ctx, `SELECT `+pgProductColumns+` FROM products WHERE id = ANY($1) ORDER BY id`, ids)
}

func (r *PostgresRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	created, err := scanPgProduct(r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price, stock, category, image_url, created_at, updated_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8)
		RETURNING `+pgProductColumns,
		p.Name, p.Description, p.Price.String(), p.Stock, p.Category, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("inserting product: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		args = append(args, patch.Price.String())
		sets = append(sets, fmt.Sprintf("price = $%d::numeric", len(args)))
	}
	if patch.Stock != nil {
		set("stock", *patch.Stock)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.ImageURL != nil {
		set("image_url", *patch.ImageURL)
	}
	set("updated_at", patch.UpdatedAt)
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), pgProductColumns)

	p, err := scanPgProduct(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Product not found")
	}
	return nil
}

func (r *PostgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanPgProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

func scanPgProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Stock,
		&p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parsing product price %q: %w", price, err)
	}
	p.Price = d
	return &p, nil
}
