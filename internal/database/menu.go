package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getMenuItem = `
SELECT id, category_id, name, description, price, image_url, is_available, sort_order, created_at, updated_at
FROM menu_items
WHERE id = $1
`

func (q *Queries) GetMenuItem(ctx context.Context, id int32) (MenuItem, error) {
	row := q.db.QueryRow(ctx, getMenuItem, id)
	var m MenuItem
	err := row.Scan(
		&m.ID,
		&m.CategoryID,
		&m.Name,
		&m.Description,
		&m.Price,
		&m.ImageUrl,
		&m.IsAvailable,
		&m.SortOrder,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

const getMenuItemWithCategory = `
SELECT mi.id, mi.category_id, mi.name, mi.description, mi.price, mi.image_url, mi.is_available, mi.sort_order, mi.created_at, mi.updated_at,
       c.name, c.description
FROM menu_items mi
JOIN categories c ON c.id = mi.category_id
WHERE mi.id = $1
`

type GetMenuItemWithCategoryRow struct {
	MenuItem            MenuItem
	CategoryName        string
	CategoryDescription pgtype.Text
}

func (q *Queries) GetMenuItemWithCategory(ctx context.Context, id int32) (GetMenuItemWithCategoryRow, error) {
	row := q.db.QueryRow(ctx, getMenuItemWithCategory, id)
	var r GetMenuItemWithCategoryRow
	err := row.Scan(
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
		&r.CategoryName,
		&r.CategoryDescription,
	)
	return r, err
}

const listAvailableMenuItems = `
SELECT mi.id, mi.category_id, mi.name, mi.description, mi.price, mi.image_url, mi.is_available, mi.sort_order, mi.created_at, mi.updated_at,
       c.name, c.description
FROM menu_items mi
JOIN categories c ON c.id = mi.category_id
WHERE mi.is_available = TRUE
ORDER BY c.sort_order, mi.sort_order, mi.id
LIMIT $1 OFFSET $2
`

type ListAvailableMenuItemsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListAvailableMenuItems(ctx context.Context, arg ListAvailableMenuItemsParams) ([]GetMenuItemWithCategoryRow, error) {
	rows, err := q.db.Query(ctx, listAvailableMenuItems, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetMenuItemWithCategoryRow
	for rows.Next() {
		var r GetMenuItemWithCategoryRow
		if err := rows.Scan(
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
			&r.CategoryName,
			&r.CategoryDescription,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const countAvailableMenuItems = `
SELECT COUNT(*) FROM menu_items WHERE is_available = TRUE
`

func (q *Queries) CountAvailableMenuItems(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countAvailableMenuItems)
	var count int64
	err := row.Scan(&count)
	return count, err
}
