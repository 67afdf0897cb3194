package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrder inserts a new order and its items in one transaction
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (customer_id, total_price, order_status_id, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date, created_at`

	if err := tx.GetContext(ctx, order, query,
		order.CustomerID, order.TotalPrice, order.OrderStatusID, order.CreatedBy); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		itemQuery := `
			INSERT INTO order_items (order_id, stock_item_id, stock_item_price, amount, count, price, selected_options)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`

		if err := tx.GetContext(ctx, &item.ID, itemQuery,
			item.OrderID, item.StockItemID, item.StockItemPrice,
			item.Amount, item.Count, item.Price, item.SelectedOptions); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order with its items
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachOrderItems(ctx, []*models.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders retrieves all orders with their items, newest first
func (s *Store) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY date DESC")
	if err != nil {
		return nil, err
	}

	refs := make([]*models.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := s.attachOrderItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrdersByStatus retrieves orders in a given status with their items
func (s *Store) GetOrdersByStatus(ctx context.Context, statusID int) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE order_status_id = $1 ORDER BY date DESC", statusID)
	if err != nil {
		return nil, err
	}

	refs := make([]*models.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := s.attachOrderItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrdersInRange retrieves orders dated within [start, end] holding
// one of the given statuses
func (s *Store) GetOrdersInRange(ctx context.Context, start, end time.Time, statusIDs []int) ([]models.Order, error) {
	query, args, err := sqlx.In(
		"SELECT * FROM orders WHERE date >= ? AND date <= ? AND order_status_id IN (?) ORDER BY date DESC",
		start, end, statusIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var orders []models.Order
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}

	refs := make([]*models.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := s.attachOrderItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrder updates order fields and replaces its items in one transaction
func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE orders
		SET customer_id = $1, total_price = $2, order_status_id = $3,
		    status_change_date = $4, updated_by = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING date, created_by, created_at, updated_at`

	err = tx.GetContext(ctx, order, query,
		order.CustomerID, order.TotalPrice, order.OrderStatusID,
		order.StatusChangeDate, order.UpdatedBy, order.ID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("order %d: %w", order.ID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", order.ID); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		itemQuery := `
			INSERT INTO order_items (order_id, stock_item_id, stock_item_price, amount, count, price, selected_options)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`

		if err := tx.GetContext(ctx, &item.ID, itemQuery,
			item.OrderID, item.StockItemID, item.StockItemPrice,
			item.Amount, item.Count, item.Price, item.SelectedOptions); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteOrder removes an order and its items, returning the removed order
func (s *Store) DeleteOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// CountOrders returns the total number of orders
func (s *Store) CountOrders(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM orders")
	return count, err
}

// CountOrdersByStatus returns the number of orders in a given status
func (s *Store) CountOrdersByStatus(ctx context.Context, statusID int) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM orders WHERE order_status_id = $1", statusID)
	return count, err
}

func (s *Store) attachOrderItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*models.Order, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		byID[order.ID] = order
		order.Items = []models.OrderItem{}
	}

	query, args, err := sqlx.In("SELECT * FROM order_items WHERE order_id IN (?) ORDER BY id", ids)
	if err != nil {
		return err
	}
	query = s.db.Rebind(query)

	var items []models.OrderItem
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return err
	}

	for _, item := range items {
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return nil
}
