package repository

import (
	"context"

	"restaurant-pos/internal/domain"
)

func (p *Postgres) GetMapping(ctx context.Context, localID string, t domain.EntityType) (domain.SyncMapping, error) {
	var m domain.SyncMapping
	err := p.pool.QueryRow(ctx, `
		SELECT id, local_id, server_id, entity_type, created_at
		FROM sync_mappings WHERE local_id = $1 AND entity_type = $2
	`, localID, t).Scan(&m.ID, &m.LocalID, &m.ServerID, &m.EntityType, &m.CreatedAt)
	if err != nil {
		return domain.SyncMapping{}, notFound(err, "sync mapping not found")
	}
	return m, nil
}

func (p *Postgres) CreateMapping(ctx context.Context, m domain.SyncMapping) (domain.SyncMapping, error) {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO sync_mappings (local_id, server_id, entity_type, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`, m.LocalID, m.ServerID, m.EntityType).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return domain.SyncMapping{}, storage(err, "failed to insert sync mapping")
	}
	return m, nil
}
