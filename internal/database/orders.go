package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, uuid, session_id, status, subtotal, delivery_fee, total_amount, customer_name, customer_phone, delivery_address, notes, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...interface{}) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.Uuid,
		&o.SessionID,
		&o.Status,
		&o.Subtotal,
		&o.DeliveryFee,
		&o.TotalAmount,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.DeliveryAddress,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

const createOrder = `
INSERT INTO orders (uuid, session_id, status, subtotal, delivery_fee, total_amount, customer_name, customer_phone, delivery_address, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	Uuid            uuid.UUID
	SessionID       string
	Status          string
	Subtotal        pgtype.Numeric
	DeliveryFee     pgtype.Numeric
	TotalAmount     pgtype.Numeric
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Notes           pgtype.Text
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.Uuid,
		arg.SessionID,
		arg.Status,
		arg.Subtotal,
		arg.DeliveryFee,
		arg.TotalAmount,
		arg.CustomerName,
		arg.CustomerPhone,
		arg.DeliveryAddress,
		arg.Notes,
	)
	return scanOrder(row)
}

const createOrderItem = `
INSERT INTO order_items (order_id, menu_item_id, item_name, unit_price, quantity, subtotal)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, order_id, menu_item_id, item_name, unit_price, quantity, subtotal, created_at
`

type CreateOrderItemParams struct {
	OrderID    int32
	MenuItemID int32
	ItemName   string
	UnitPrice  pgtype.Numeric
	Quantity   int32
	Subtotal   pgtype.Numeric
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.MenuItemID,
		arg.ItemName,
		arg.UnitPrice,
		arg.Quantity,
		arg.Subtotal,
	)
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.MenuItemID,
		&i.ItemName,
		&i.UnitPrice,
		&i.Quantity,
		&i.Subtotal,
		&i.CreatedAt,
	)
	return i, err
}

const createOrderStatusEvent = `
INSERT INTO order_status_history (order_id, status, notes)
VALUES ($1, $2, $3)
RETURNING id, order_id, status, notes, created_at
`

type CreateOrderStatusEventParams struct {
	OrderID int32
	Status  string
	Notes   pgtype.Text
}

func (q *Queries) CreateOrderStatusEvent(ctx context.Context, arg CreateOrderStatusEventParams) (OrderStatusEvent, error) {
	row := q.db.QueryRow(ctx, createOrderStatusEvent, arg.OrderID, arg.Status, arg.Notes)
	var e OrderStatusEvent
	err := row.Scan(
		&e.ID,
		&e.OrderID,
		&e.Status,
		&e.Notes,
		&e.CreatedAt,
	)
	return e, err
}

const getOrderByUuid = `
SELECT ` + orderColumns + ` FROM orders WHERE uuid = $1
`

func (q *Queries) GetOrderByUuid(ctx context.Context, u uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByUuid, u))
}

const getOrderByID = `
SELECT ` + orderColumns + ` FROM orders WHERE id = $1
`

func (q *Queries) GetOrderByID(ctx context.Context, id int32) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByID, id))
}

// getOrderByIDForUpdate locks the order row for the duration of the
// enclosing transaction so payment reconciliation serializes.
const getOrderByIDForUpdate = `
SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetOrderByIDForUpdate(ctx context.Context, id int32) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByIDForUpdate, id))
}

const getOrderByUuidForUpdate = `
SELECT ` + orderColumns + ` FROM orders WHERE uuid = $1 FOR UPDATE
`

func (q *Queries) GetOrderByUuidForUpdate(ctx context.Context, u uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByUuidForUpdate, u))
}

const updateOrderStatus = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID     int32
	Status string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status))
}

const listOrdersBySession = `
SELECT ` + orderColumns + `
FROM orders
WHERE session_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListOrdersBySessionParams struct {
	SessionID string
	Limit     int32
	Offset    int32
}

func (q *Queries) ListOrdersBySession(ctx context.Context, arg ListOrdersBySessionParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersBySession, arg.SessionID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const countOrdersBySession = `
SELECT COUNT(*) FROM orders WHERE session_id = $1
`

func (q *Queries) CountOrdersBySession(ctx context.Context, sessionID string) (int64, error) {
	row := q.db.QueryRow(ctx, countOrdersBySession, sessionID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listOrderItemsByOrder = `
SELECT id, order_id, menu_item_id, item_name, unit_price, quantity, subtotal, created_at
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID int32) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.MenuItemID,
			&i.ItemName,
			&i.UnitPrice,
			&i.Quantity,
			&i.Subtotal,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// listOrderStatusEvents returns history most-recent-first, matching the
// order the status endpoints expose it in.
const listOrderStatusEvents = `
SELECT id, order_id, status, notes, created_at
FROM order_status_history
WHERE order_id = $1
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListOrderStatusEvents(ctx context.Context, orderID int32) ([]OrderStatusEvent, error) {
	rows, err := q.db.Query(ctx, listOrderStatusEvents, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []OrderStatusEvent
	for rows.Next() {
		var e OrderStatusEvent
		if err := rows.Scan(
			&e.ID,
			&e.OrderID,
			&e.Status,
			&e.Notes,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
