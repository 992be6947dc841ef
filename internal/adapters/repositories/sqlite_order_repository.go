package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"logistics-dispatch-service/internal/domain"
)

// SQLite-backed implementation of the OrderRepository port.
type SqliteOrderRepository struct{ DB *sql.DB }

func NewSqliteOrderRepository(db *sql.DB) *SqliteOrderRepository {
	return &SqliteOrderRepository{DB: db}
}

// Retrieve orders by ID. Missing IDs are absent from the result.
func (r *SqliteOrderRepository) GetOrders(ctx context.Context, orderIDs []string) ([]*domain.Order, error) {
	if r.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	if len(orderIDs) == 0 {
		return []*domain.Order{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(orderIDs))
	ph := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
		ph = append(ph, "?")
	}

	if len(uniq) == 0 {
		return []*domain.Order{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, id := range uniq {
		args = append(args, id)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	query := fmt.Sprintf(`
	SELECT
		order_id,
		destination,
		weight_kg,
		priority
	FROM orders
	WHERE order_id IN (%s)
	ORDER BY order_id;
	`, strings.Join(ph, ","))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, len(uniq))
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.OrderID, &o.Destination, &o.WeightKg, &o.Priority); err != nil {
			return nil, fmt.Errorf("get orders: scan row: %w", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get orders: row iteration: %w", err)
	}

	return orders, nil
}
