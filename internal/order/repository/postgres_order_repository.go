package repository

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"edushare/internal/domain"
	"edushare/internal/errors"
)

const orderColumns = `id, user_id, items, total_amount::text, status, created_at, updated_at`

// PostgresOrderRepository stores line items as a JSONB column on the orders
// row, so an order is always written by a single statement.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("encoding order items: %w", err)
	}

	query := `
		INSERT INTO orders (user_id, items, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6)
		RETURNING ` + orderColumns

	created, err := scanPgOrder(r.pool.QueryRow(ctx, query,
		order.OwnerID, items, order.TotalAmount.String(), string(order.Status), order.CreatedAt, order.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}
	return created, nil
}

func (r *PostgresOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanPgOrder(r.pool.QueryRow(ctx, query, int64(id)))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}
	return order, nil
}

func (r *PostgresOrderRepository) FindByOwnerID(ctx context.Context, ownerID int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying orders by owner: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanPgOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.OrderStatus, updatedAt time.Time) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + orderColumns

	order, err := scanPgOrder(r.pool.QueryRow(ctx, query, string(to), updatedAt, int64(id), string(from)))
	if stderrors.Is(err, pgx.ErrNoRows) {
		current, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		return nil, errors.NewConflictError(fmt.Sprintf("order %d status changed concurrently (now %s)", id, current.Status))
	}
	if err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}
	return order, nil
}

func scanPgOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order  domain.Order
		id     int64
		items  []byte
		total  string
		status string
	)
	if err := row.Scan(&id, &order.OwnerID, &items, &total, &status, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parsing total amount: %w", err)
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("decoding order items: %w", err)
	}

	order.ID = uint(id)
	order.TotalAmount = amount
	order.Status = domain.OrderStatus(status)
	return &order, nil
}
