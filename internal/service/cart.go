package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/forkful/api/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Errors returned by the cart service.
var (
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrCartItemNotFound    = errors.New("cart item not found")
)

// CartStore defines the DB methods needed by the cart service.
// Satisfied by *database.Queries.
type CartStore interface {
	GetMenuItem(ctx context.Context, id int32) (database.MenuItem, error)
	UpsertCartItem(ctx context.Context, arg database.UpsertCartItemParams) (database.UpsertCartItemRow, error)
	ListCartItemsBySession(ctx context.Context, sessionID string) ([]database.ListCartItemsBySessionRow, error)
	UpdateCartItemQuantity(ctx context.Context, arg database.UpdateCartItemQuantityParams) (database.CartItem, error)
	DeleteCartItem(ctx context.Context, arg database.DeleteCartItemParams) error
	ClearCart(ctx context.Context, sessionID string) error
}

// CartLine is one cart row joined with its current menu item data.
type CartLine struct {
	Item     database.CartItem
	MenuItem database.MenuItem
}

// Cart is a session's full cart with its computed subtotal.
type Cart struct {
	Lines    []CartLine
	Subtotal decimal.Decimal
}

// CartService handles session-scoped cart operations.
type CartService struct {
	store CartStore
}

// NewCartService creates a new CartService.
func NewCartService(store CartStore) *CartService {
	return &CartService{store: store}
}

// AddItem puts quantity of a menu item into the session's cart. When a
// line for (session, item) already exists the quantities merge; the
// returned flag reports whether a new line was created. The merge runs as
// a single upsert, so concurrent adds for the same item never lose an
// update.
func (s *CartService) AddItem(ctx context.Context, sessionID string, menuItemID, quantity int32) (*CartLine, bool, error) {
	if quantity < 1 {
		return nil, false, ErrInvalidQuantity
	}

	item, err := s.store.GetMenuItem(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, ErrMenuItemNotFound
		}
		return nil, false, fmt.Errorf("get menu item: %w", err)
	}
	if !item.IsAvailable {
		return nil, false, ErrMenuItemUnavailable
	}

	row, err := s.store.UpsertCartItem(ctx, database.UpsertCartItemParams{
		SessionID:  sessionID,
		MenuItemID: menuItemID,
		Quantity:   quantity,
	})
	if err != nil {
		return nil, false, fmt.Errorf("upsert cart item: %w", err)
	}

	return &CartLine{Item: row.CartItem, MenuItem: item}, row.Inserted, nil
}

// GetCart returns the session's cart lines in insertion order with the
// subtotal computed from current menu prices. An empty cart is a valid
// cart: no lines, subtotal zero.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	rows, err := s.store.ListCartItemsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	cart := &Cart{Subtotal: decimal.Zero}
	for _, r := range rows {
		cart.Lines = append(cart.Lines, CartLine{Item: r.CartItem, MenuItem: r.MenuItem})
		price := numericToDecimal(r.MenuItem.Price)
		cart.Subtotal = cart.Subtotal.Add(price.Mul(decimal.NewFromInt32(r.CartItem.Quantity)))
	}
	return cart, nil
}

// UpdateItem replaces a cart line's quantity outright. The line must
// belong to the session.
func (s *CartService) UpdateItem(ctx context.Context, sessionID string, itemID, quantity int32) (*CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	updated, err := s.store.UpdateCartItemQuantity(ctx, database.UpdateCartItemQuantityParams{
		ID:        itemID,
		SessionID: sessionID,
		Quantity:  quantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	item, err := s.store.GetMenuItem(ctx, updated.MenuItemID)
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}

	return &CartLine{Item: updated, MenuItem: item}, nil
}

// RemoveItem deletes a cart line belonging to the session.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, itemID int32) error {
	err := s.store.DeleteCartItem(ctx, database.DeleteCartItemParams{
		ID:        itemID,
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// ClearCart deletes every line for the session. Clearing an empty cart
// is a no-op, not an error.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.store.ClearCart(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
