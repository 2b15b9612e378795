package repository

import (
	"context"

	"restaurant-pos/internal/domain"
)

const itemColumns = `id, name, description, price, item_type, image_url, created_at`

func (p *Postgres) CreateItem(ctx context.Context, it domain.Item) (domain.Item, error) {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO items (name, description, price, item_type, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`, it.Name, it.Description, it.Price, it.ItemType, it.ImageURL).Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		return domain.Item{}, storage(err, "failed to insert item")
	}
	return it, nil
}

func (p *Postgres) GetItem(ctx context.Context, id int) (domain.Item, error) {
	var it domain.Item
	err := p.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id).
		Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.ItemType, &it.ImageURL, &it.CreatedAt)
	if err != nil {
		return domain.Item{}, notFound(err, "item not found")
	}
	return it, nil
}

func (p *Postgres) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, storage(err, "failed to list items")
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.ItemType, &it.ImageURL, &it.CreatedAt); err != nil {
			return nil, storage(err, "failed to scan item")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateItem never touches item_type: the routing key is immutable.
func (p *Postgres) UpdateItem(ctx context.Context, it domain.Item) (domain.Item, error) {
	err := p.pool.QueryRow(ctx, `
		UPDATE items SET name = $2, description = $3, price = $4, image_url = $5
		WHERE id = $1
		RETURNING `+itemColumns+`
	`, it.ID, it.Name, it.Description, it.Price, it.ImageURL).
		Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.ItemType, &it.ImageURL, &it.CreatedAt)
	if err != nil {
		return domain.Item{}, notFound(err, "item not found")
	}
	return it, nil
}

func (p *Postgres) DeleteItem(ctx context.Context, id int) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return storage(err, "failed to delete item")
	}
	if tag.RowsAffected() == 0 {
		return domain.E(domain.KindNotFound, "item not found")
	}
	return nil
}
