package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"edushare/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

func (r *MySQLOrderItemRepository) Insert(ctx context.Context, tx *sql.Tx, orderID uint, position int, item domain.LineItem) (uint, error) {
	query := `INSERT INTO OrderItems (orderId, position, itemId, name, unitPrice, quantity) VALUES (?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, orderID, position, item.ItemID, item.Name, item.UnitPrice.String(), item.Quantity)
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

// FindByOrderIDs returns items grouped by order, each group in insertion order.
func (r *MySQLOrderItemRepository) FindByOrderIDs(ctx context.Context, orderIDs []uint) (map[uint][]domain.LineItem, error) {
	out := make(map[uint][]domain.LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]interface{}, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT orderId, itemId, name, unitPrice, quantity
		FROM OrderItems
		WHERE orderId IN (%s)
		ORDER BY orderId, position`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uint
		var item domain.LineItem
		if err := rows.Scan(&orderID, &item.ItemID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		out[orderID] = append(out[orderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return out, nil
}
