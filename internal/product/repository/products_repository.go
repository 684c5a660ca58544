package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
)

const productColumns = `id, name, description, price, stock, category, imageUrl, createdAt, updatedAt`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM Product WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying product %d: %w", id, err)
	}
	return p, nil
}

func (r *MySQLRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	query := `SELECT ` + productColumns + ` FROM Product`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY createdAt DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	return r.queryProducts(ctx, query, args...)
}

func (r *MySQLRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM Product WHERE id IN (%s) ORDER BY id`,
		productColumns, strings.Join(placeholders, ", "))
	return r.queryProducts(ctx, query, args...)
}

func (r *MySQLRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO Product (name, description, price, stock, category, imageUrl, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading product id: %w", err)
	}
	return r.FindByID(ctx, int(id))
}

// Update writes only the fields set in patch and returns the stored row.
func (r *MySQLRepository) Update(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	var (
		sets []string
		args []interface{}
	)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.Stock != nil {
		sets = append(sets, "stock = ?")
		args = append(args, *patch.Stock)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.ImageURL != nil {
		sets = append(sets, "imageUrl = ?")
		args = append(args, *patch.ImageURL)
	}
	sets = append(sets, "updatedAt = ?")
	args = append(args, patch.UpdatedAt, id)

	query := `UPDATE Product SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

func (r *MySQLRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM Product WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError("Product not found")
	}
	return nil
}

func (r *MySQLRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p           domain.Product
		description sql.NullString
		category    sql.NullString
		imageURL    sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Name, &description, &p.Price, &p.Stock,
		&category, &imageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Category = category.String
	p.ImageURL = imageURL.String
	return &p, nil
}
