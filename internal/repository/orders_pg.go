package repository

import (
	"context"
	"fmt"

	"restaurant-pos/internal/domain"
)

const orderColumns = `id, waiter_id, cashier_id, table_number, total_amount, status, created_at, updated_at`
const orderItemColumns = `id, order_id, item_id, name, item_type, quantity, price, status, created_at`

// CreateOrder inserts the order row and all its line items in one transaction.
// A non-zero CreatedAt is kept (offline sync replays client timestamps).
func (p *Postgres) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, storage(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	createdAt := "NOW()"
	args := []any{o.WaiterID, o.CashierID, o.TableNumber, o.TotalAmount, o.Status}
	if !o.CreatedAt.IsZero() {
		createdAt = "$6"
		args = append(args, o.CreatedAt)
	}
	err = tx.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO orders (waiter_id, cashier_id, table_number, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, %s, NOW())
		RETURNING id, created_at, updated_at
	`, createdAt), args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, storage(err, "failed to insert order")
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, item_id, name, item_type, quantity, price, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id, created_at
		`, o.ID, it.ItemID, it.Name, it.ItemType, it.Quantity, it.Price, it.Status).Scan(&it.ID, &it.CreatedAt)
		if err != nil {
			return domain.Order{}, storage(err, fmt.Sprintf("failed to insert order item %q", it.Name))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, storage(err, "failed to commit order")
	}
	return o, nil
}

func (p *Postgres) GetOrder(ctx context.Context, id int) (domain.Order, error) {
	var o domain.Order
	err := p.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.WaiterID, &o.CashierID, &o.TableNumber, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, notFound(err, "order not found")
	}
	items, err := p.ListOrderItems(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (p *Postgres) ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	where := ""
	if f.Status != nil {
		args = append(args, *f.Status)
		where = fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	if f.TableNumber != nil {
		args = append(args, *f.TableNumber)
		if where == "" {
			where = fmt.Sprintf(" WHERE table_number = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND table_number = $%d", len(args))
		}
	}
	rows, err := p.pool.Query(ctx, q+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, storage(err, "failed to list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.WaiterID, &o.CashierID, &o.TableNumber, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, storage(err, "failed to scan order")
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (p *Postgres) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (domain.Order, error) {
	var o domain.Order
	err := p.pool.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns+`
	`, id, status).Scan(&o.ID, &o.WaiterID, &o.CashierID, &o.TableNumber, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, notFound(err, "order not found")
	}
	return o, nil
}

// DeleteOrder removes the order; order_items cascade at the schema level.
func (p *Postgres) DeleteOrder(ctx context.Context, id int) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return storage(err, "failed to delete order")
	}
	if tag.RowsAffected() == 0 {
		return domain.E(domain.KindNotFound, "order not found")
	}
	return nil
}

func (p *Postgres) GetOrderItem(ctx context.Context, id int) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := p.pool.QueryRow(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE id = $1`, id).
		Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Name, &it.ItemType, &it.Quantity, &it.Price, &it.Status, &it.CreatedAt)
	if err != nil {
		return domain.OrderItem{}, notFound(err, "order item not found")
	}
	return it, nil
}

// ListOrderItems returns line items in insertion order: the preparation queue.
func (p *Postgres) ListOrderItems(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, storage(err, "failed to list order items")
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Name, &it.ItemType, &it.Quantity, &it.Price, &it.Status, &it.CreatedAt); err != nil {
			return nil, storage(err, "failed to scan order item")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (p *Postgres) UpdateOrderItemStatus(ctx context.Context, id int, status domain.ItemStatus) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := p.pool.QueryRow(ctx, `
		UPDATE order_items SET status = $2
		WHERE id = $1
		RETURNING `+orderItemColumns+`
	`, id, status).Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Name, &it.ItemType, &it.Quantity, &it.Price, &it.Status, &it.CreatedAt)
	if err != nil {
		return domain.OrderItem{}, notFound(err, "order item not found")
	}
	return it, nil
}

// OrderItemView joins the line item with its catalog row. The catalog row may
// have been deleted since the order was taken, hence the LEFT JOIN.
func (p *Postgres) OrderItemView(ctx context.Context, id int) (domain.ItemView, error) {
	var v domain.ItemView
	err := p.pool.QueryRow(ctx, `
		SELECT oi.id, oi.order_id, oi.item_id, oi.name, i.description, i.image_url,
		       oi.item_type, oi.quantity, oi.price, oi.status
		FROM order_items oi
		LEFT JOIN items i ON i.id = oi.item_id
		WHERE oi.id = $1
	`, id).Scan(&v.OrderItemID, &v.OrderID, &v.ItemID, &v.Name, &v.Description, &v.ImageURL,
		&v.ItemType, &v.Quantity, &v.Price, &v.Status)
	if err != nil {
		return domain.ItemView{}, notFound(err, "order item not found")
	}
	return v, nil
}

func (p *Postgres) CountItemsByType(ctx context.Context, orderID int) (int, int, error) {
	var food, drink int
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE item_type = 'food'),
		       COUNT(*) FILTER (WHERE item_type = 'drink')
		FROM order_items WHERE order_id = $1
	`, orderID).Scan(&food, &drink)
	if err != nil {
		return 0, 0, storage(err, "failed to count order items")
	}
	return food, drink, nil
}
