package repository

import (
	"context"

	"restaurant-pos/internal/domain"
)

func (p *Postgres) CreateReceipt(ctx context.Context, r domain.Receipt) (domain.Receipt, error) {
	printedAt := r.PrintedAt
	if printedAt.IsZero() {
		err := p.pool.QueryRow(ctx, `
			INSERT INTO receipts (order_id, local_order_id, content, synced, printed_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id, printed_at
		`, r.OrderID, r.LocalOrderID, r.Content, r.Synced).Scan(&r.ID, &r.PrintedAt)
		if err != nil {
			return domain.Receipt{}, storage(err, "failed to insert receipt")
		}
		return r, nil
	}
	err := p.pool.QueryRow(ctx, `
		INSERT INTO receipts (order_id, local_order_id, content, synced, printed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, r.OrderID, r.LocalOrderID, r.Content, r.Synced, printedAt).Scan(&r.ID)
	if err != nil {
		return domain.Receipt{}, storage(err, "failed to insert receipt")
	}
	return r, nil
}
