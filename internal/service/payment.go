package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/forkful/api/internal/database"
	"github.com/forkful/api/internal/enum"
	"github.com/forkful/api/internal/payment"
	"github.com/jackc/pgx/v5"
)

const defaultCancelNote = "payment cancelled"

// PaymentStore defines the DB methods needed by the payment service.
// Satisfied by *database.Queries (and its WithTx variant).
type PaymentStore interface {
	GetOrderByIDForUpdate(ctx context.Context, id int32) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	CreateOrderStatusEvent(ctx context.Context, arg database.CreateOrderStatusEventParams) (database.OrderStatusEvent, error)
}

// NewPaymentStore creates a PaymentStore from a DBTX (pool or tx).
type NewPaymentStore func(db database.DBTX) PaymentStore

// ReconcileResult reports what a reconciliation call did to the order.
type ReconcileResult struct {
	OrderID int32
	// Applied is false when the outcome was a duplicate success
	// confirmation and the order was left untouched.
	Applied bool
	// Status is the order's current status after the call.
	Status string
}

// PaymentService applies external payment outcomes to order state.
type PaymentService struct {
	pool     TxBeginner
	newStore NewPaymentStore
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(pool TxBeginner, newStore NewPaymentStore) *PaymentService {
	return &PaymentService{pool: pool, newStore: newStore}
}

// Reconcile maps a verified payment outcome to at most one status
// transition. The order row is locked before the status check so
// concurrent webhook deliveries serialize.
//
// Success confirms the order only while it is still PENDING; a redelivered
// confirmation is a no-op reported with Applied=false. A failure or
// cancellation signal cancels the order from any current status.
func (s *PaymentService) Reconcile(ctx context.Context, out payment.Outcome) (*ReconcileResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderByIDForUpdate(ctx, out.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if out.Succeeded {
		if order.Status != enum.OrderStatusPending {
			// Already confirmed (or further along): duplicate delivery.
			// Report current state without touching history.
			return &ReconcileResult{
				OrderID: order.ID,
				Applied: false,
				Status:  order.Status,
			}, nil
		}
		if err := s.transition(ctx, store, order.ID, enum.OrderStatusConfirmed,
			fmt.Sprintf("Payment confirmed. Reference: %s", out.Reference)); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit tx: %w", err)
		}
		return &ReconcileResult{
			OrderID: order.ID,
			Applied: true,
			Status:  enum.OrderStatusConfirmed,
		}, nil
	}

	note := out.Note
	if note == "" {
		note = defaultCancelNote
	}
	if err := s.transition(ctx, store, order.ID, enum.OrderStatusCancelled, note); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &ReconcileResult{
		OrderID: order.ID,
		Applied: true,
		Status:  enum.OrderStatusCancelled,
	}, nil
}

func (s *PaymentService) transition(ctx context.Context, store PaymentStore, orderID int32, status, note string) error {
	if _, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:     orderID,
		Status: status,
	}); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if _, err := store.CreateOrderStatusEvent(ctx, database.CreateOrderStatusEventParams{
		OrderID: orderID,
		Status:  status,
		Notes:   textOrNull(note),
	}); err != nil {
		return fmt.Errorf("create status event: %w", err)
	}
	return nil
}
