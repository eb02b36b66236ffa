package database

import "context"

// upsertCartItem merges quantity for an existing (session, item) pair in a
// single statement so concurrent adds never lose an update. The xmax = 0
// check distinguishes a fresh insert from a conflict-update.
const upsertCartItem = `
INSERT INTO cart_items (session_id, menu_item_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (session_id, menu_item_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
RETURNING id, session_id, menu_item_id, quantity, created_at, updated_at, (xmax = 0) AS inserted
`

type UpsertCartItemParams struct {
	SessionID  string
	MenuItemID int32
	Quantity   int32
}

type UpsertCartItemRow struct {
	CartItem CartItem
	Inserted bool
}

func (q *Queries) UpsertCartItem(ctx context.Context, arg UpsertCartItemParams) (UpsertCartItemRow, error) {
	row := q.db.QueryRow(ctx, upsertCartItem, arg.SessionID, arg.MenuItemID, arg.Quantity)
	var r UpsertCartItemRow
	err := row.Scan(
		&r.CartItem.ID,
		&r.CartItem.SessionID,
		&r.CartItem.MenuItemID,
		&r.CartItem.Quantity,
		&r.CartItem.CreatedAt,
		&r.CartItem.UpdatedAt,
		&r.Inserted,
	)
	return r, err
}

const listCartItemsBySession = `
SELECT ci.id, ci.session_id, ci.menu_item_id, ci.quantity, ci.created_at, ci.updated_at,
       mi.id, mi.category_id, mi.name, mi.description, mi.price, mi.image_url, mi.is_available, mi.sort_order, mi.created_at, mi.updated_at
FROM cart_items ci
JOIN menu_items mi ON mi.id = ci.menu_item_id
WHERE ci.session_id = $1
ORDER BY ci.created_at, ci.id
`

type ListCartItemsBySessionRow struct {
	CartItem CartItem
	MenuItem MenuItem
}

func (q *Queries) ListCartItemsBySession(ctx context.Context, sessionID string) ([]ListCartItemsBySessionRow, error) {
	rows, err := q.db.Query(ctx, listCartItemsBySession, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListCartItemsBySessionRow
	for rows.Next() {
		var r ListCartItemsBySessionRow
		if err := rows.Scan(
			&r.CartItem.ID,
			&r.CartItem.SessionID,
			&r.CartItem.MenuItemID,
			&r.CartItem.Quantity,
			&r.CartItem.CreatedAt,
			&r.CartItem.UpdatedAt,
			&r.MenuItem.ID,
			&r.MenuItem.CategoryID,
			&r.MenuItem.Name,
			&r.MenuItem.Description,
			&r.MenuItem.Price,
			&r.MenuItem.ImageUrl,
			&r.MenuItem.IsAvailable,
			&r.MenuItem.SortOrder,
			&r.MenuItem.CreatedAt,
			&r.MenuItem.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// listCartItemsBySessionForUpdate locks the session's cart rows for the
// enclosing transaction, serializing checkout against a concurrent clear.
const listCartItemsBySessionForUpdate = listCartItemsBySession + `
FOR UPDATE OF ci
`

func (q *Queries) ListCartItemsBySessionForUpdate(ctx context.Context, sessionID string) ([]ListCartItemsBySessionRow, error) {
	rows, err := q.db.Query(ctx, listCartItemsBySessionForUpdate, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListCartItemsBySessionRow
	for rows.Next() {
		var r ListCartItemsBySessionRow
		if err := rows.Scan(
			&r.CartItem.ID,
			&r.CartItem.SessionID,
			&r.CartItem.MenuItemID,
			&r.CartItem.Quantity,
			&r.CartItem.CreatedAt,
			&r.CartItem.UpdatedAt,
			&r.MenuItem.ID,
			&r.MenuItem.CategoryID,
			&r.MenuItem.Name,
			&r.MenuItem.Description,
			&r.MenuItem.Price,
			&r.MenuItem.ImageUrl,
			&r.MenuItem.IsAvailable,
			&r.MenuItem.SortOrder,
			&r.MenuItem.CreatedAt,
			&r.MenuItem.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const updateCartItemQuantity = `
UPDATE cart_items
SET quantity = $3, updated_at = now()
WHERE id = $1 AND session_id = $2
RETURNING id, session_id, menu_item_id, quantity, created_at, updated_at
`

type UpdateCartItemQuantityParams struct {
	ID        int32
	SessionID string
	Quantity  int32
}

func (q *Queries) UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error) {
	row := q.db.QueryRow(ctx, updateCartItemQuantity, arg.ID, arg.SessionID, arg.Quantity)
	var c CartItem
	err := row.Scan(
		&c.ID,
		&c.SessionID,
		&c.MenuItemID,
		&c.Quantity,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// deleteCartItem returns the deleted id so a missing or foreign row
// surfaces as pgx.ErrNoRows.
const deleteCartItem = `
DELETE FROM cart_items
WHERE id = $1 AND session_id = $2
RETURNING id
`

type DeleteCartItemParams struct {
	ID        int32
	SessionID string
}

func (q *Queries) DeleteCartItem(ctx context.Context, arg DeleteCartItemParams) error {
	row := q.db.QueryRow(ctx, deleteCartItem, arg.ID, arg.SessionID)
	var id int32
	return row.Scan(&id)
}

const clearCart = `
DELETE FROM cart_items WHERE session_id = $1
`

func (q *Queries) ClearCart(ctx context.Context, sessionID string) error {
	_, err := q.db.Exec(ctx, clearCart, sessionID)
	return err
}
