package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forkful/api/internal/database"
	"github.com/forkful/api/internal/enum"
	"github.com/forkful/api/internal/payment"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Errors returned by the order service.
var (
	ErrMissingCustomerName    = errors.New("customer name is required")
	ErrMissingCustomerPhone   = errors.New("customer phone is required")
	ErrMissingDeliveryAddress = errors.New("delivery address is required")
	ErrEmptyCart              = errors.New("cannot create order with empty cart")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStatus          = errors.New("invalid status")
)

// TxBeginner starts a new database transaction. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order service.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	ListCartItemsBySessionForUpdate(ctx context.Context, sessionID string) ([]database.ListCartItemsBySessionRow, error)
	ClearCart(ctx context.Context, sessionID string) error
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	CreateOrderStatusEvent(ctx context.Context, arg database.CreateOrderStatusEventParams) (database.OrderStatusEvent, error)
	GetOrderByUuidForUpdate(ctx context.Context, u uuid.UUID) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the validated input for checkout.
type CreateOrderRequest struct {
	SessionID       string
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Notes           string
}

// CreateOrderResult is the fully populated order created at checkout.
type CreateOrderResult struct {
	Order       database.Order
	Items       []database.OrderItem
	History     []database.OrderStatusEvent
	CheckoutURL string
}

// OrderService converts carts into immutable order snapshots and drives
// the order status machine.
type OrderService struct {
	pool        TxBeginner
	newStore    NewOrderStore
	deliveryFee decimal.Decimal
	origin      string
}

// NewOrderService creates a new OrderService. deliveryFee is the fixed
// per-order fee; origin is the client origin used for checkout URLs.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, deliveryFee decimal.Decimal, origin string) *OrderService {
	return &OrderService{
		pool:        pool,
		newStore:    newStore,
		deliveryFee: deliveryFee,
		origin:      origin,
	}
}

// CreateOrder snapshots the session's cart into an immutable order. The
// cart read, order/items/history inserts, and cart clear all run in one
// transaction: a concurrent clear or second checkout for the same session
// serializes against the row locks taken by the cart read. Item name and
// price are captured as of now; later menu edits never alter the order.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrMissingCustomerName
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, ErrMissingCustomerPhone
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, ErrMissingDeliveryAddress
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	lines, err := store.ListCartItemsBySessionForUpdate(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		price := numericToDecimal(line.MenuItem.Price)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt32(line.CartItem.Quantity)))
	}
	totalAmount := subtotal.Add(s.deliveryFee)

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		Uuid:            uuid.New(),
		SessionID:       req.SessionID,
		Status:          enum.OrderStatusPending,
		Subtotal:        decimalToNumeric(subtotal),
		DeliveryFee:     decimalToNumeric(s.deliveryFee),
		TotalAmount:     decimalToNumeric(totalAmount),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           textOrNull(req.Notes),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, 0, len(lines))
	for _, line := range lines {
		price := numericToDecimal(line.MenuItem.Price)
		lineSubtotal := price.Mul(decimal.NewFromInt32(line.CartItem.Quantity))
		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:    order.ID,
			MenuItemID: line.MenuItem.ID,
			ItemName:   line.MenuItem.Name,
			UnitPrice:  decimalToNumeric(price),
			Quantity:   line.CartItem.Quantity,
			Subtotal:   decimalToNumeric(lineSubtotal),
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	event, err := store.CreateOrderStatusEvent(ctx, database.CreateOrderStatusEventParams{
		OrderID: order.ID,
		Status:  enum.OrderStatusPending,
		Notes:   textOrNull("Order created"),
	})
	if err != nil {
		return nil, fmt.Errorf("create status event: %w", err)
	}

	if err := store.ClearCart(ctx, req.SessionID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{
		Order:       order,
		Items:       items,
		History:     []database.OrderStatusEvent{event},
		CheckoutURL: payment.CheckoutURL(s.origin, order.ID, totalAmount, order.Uuid),
	}, nil
}

// UpdateStatus moves an order to a new status and appends the matching
// history event in one transaction, so the current status and the latest
// event never diverge. Any of the six statuses is reachable from any
// other; there is deliberately no adjacency table.
func (s *OrderService) UpdateStatus(ctx context.Context, orderUuid uuid.UUID, status, notes string) (*database.Order, error) {
	if !enum.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderByUuidForUpdate(ctx, orderUuid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:     order.ID,
		Status: status,
	})
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if _, err := store.CreateOrderStatusEvent(ctx, database.CreateOrderStatusEventParams{
		OrderID: order.ID,
		Status:  status,
		Notes:   textOrNull(notes),
	}); err != nil {
		return nil, fmt.Errorf("create status event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &updated, nil
}
