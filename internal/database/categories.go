package database

import "context"

const listActiveCategories = `
SELECT id, name, description, image_url, sort_order, is_active, created_at, updated_at
FROM categories
WHERE is_active = TRUE
ORDER BY sort_order, id
`

func (q *Queries) ListActiveCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listActiveCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.ImageUrl,
			&c.SortOrder,
			&c.IsActive,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
