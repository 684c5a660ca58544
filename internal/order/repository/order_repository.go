package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"edushare/internal/domain"
	"edushare/internal/errors"
)

type MySQLOrderRepository struct {
	db        *sql.DB
	itemsRepo *MySQLOrderItemRepository
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{
		db:        db,
		itemsRepo: NewMySQLOrderItemRepository(db),
	}
}

// Create writes the order row and its items in one transaction.
func (r *MySQLOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO Orders (ownerId, status, totalAmount, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.OwnerID, string(order.Status), order.TotalAmount.String(), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	orderID := uint(lastInsertID)

	for position, item := range order.Items {
		if _, err := r.itemsRepo.Insert(ctx, tx, orderID, position, item); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing order: %w", err)
	}

	created := *order
	created.ID = orderID
	created.Items = append([]domain.LineItem(nil), order.Items...)
	return &created, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `
		SELECT id, ownerId, status, totalAmount, createdAt, updatedAt
		FROM Orders
		WHERE id = ?
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	items, err := r.itemsRepo.FindByOrderIDs(ctx, []uint{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

func (r *MySQLOrderRepository) FindByOwnerID(ctx context.Context, ownerID int) ([]domain.Order, error) {
	query := `
		SELECT id, ownerId, status, totalAmount, createdAt, updatedAt
		FROM Orders
		WHERE ownerId = ?
		ORDER BY createdAt DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying orders by owner: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []uint
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	items, err := r.itemsRepo.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

// UpdateStatus applies the change only if the stored status still equals
// from. A lost race yields a ConflictError.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.OrderStatus, updatedAt time.Time) (*domain.Order, error) {
	query := `UPDATE Orders SET status = ?, updatedAt = ? WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query, string(to), updatedAt, id, string(from))
	if err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, errors.NewConflictError(fmt.Sprintf("order %d status changed concurrently (now %s)", id, current.Status))
	}

	return r.FindByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var status string
	err := row.Scan(
		&order.ID, &order.OwnerID, &status, &order.TotalAmount,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)
	return &order, nil
}
