// Package syncer replays batches of entities captured by terminals while
// offline, assigning durable server identities.
package syncer

import (
	"context"
	"time"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/common/logging"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

var syncRoles = []domain.Role{domain.RoleWaiter, domain.RoleCashier, domain.RoleAdmin}

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// Sync processes each entity independently: one entity's failure is counted
// and logged but never aborts the rest of the batch. Replaying a batch is
// safe because entities whose (local_id, entity_type) mapping already exists
// are counted as synced without inserting again.
func (s *Service) Sync(ctx context.Context, actor domain.Actor, req domain.SyncRequest) (domain.SyncResult, error) {
	if err := auth.Require(actor, syncRoles...); err != nil {
		return domain.SyncResult{}, err
	}

	var res domain.SyncResult
	for _, e := range req.Entities {
		if err := s.syncEntity(ctx, actor, e); err != nil {
			res.Failed++
			logging.Error().Err(err).Str("local_id", e.LocalID).Str("type", string(e.Type)).
				Msg("failed to sync entity")
			continue
		}
		res.Synced++
	}
	logging.Info().Int("synced", res.Synced).Int("failed", res.Failed).Msg("sync batch processed")
	return res, nil
}

func (s *Service) syncEntity(ctx context.Context, actor domain.Actor, e domain.SyncEntity) error {
	if e.LocalID == "" {
		return domain.E(domain.KindValidation, "entity local_id is required")
	}
	switch e.Type {
	case domain.EntityOrder:
		return s.syncOrder(ctx, actor, e)
	case domain.EntityReceipt:
		return s.syncReceipt(ctx, e)
	default:
		return domain.Ef(domain.KindValidation, "unknown entity type %q", e.Type)
	}
}

func (s *Service) syncOrder(ctx context.Context, actor domain.Actor, e domain.SyncEntity) error {
	if _, err := s.store.GetMapping(ctx, e.LocalID, domain.EntityOrder); err == nil {
		return nil // already replayed
	} else if domain.KindOf(err) != domain.KindNotFound {
		return err
	}
	if e.Order == nil || len(e.Order.Items) == 0 {
		return domain.E(domain.KindValidation, "order entity requires at least one item")
	}

	o := domain.Order{
		WaiterID:    e.Order.WaiterID,
		CashierID:   e.Order.CashierID,
		TableNumber: e.Order.TableNumber,
		Status:      e.Order.Status,
	}
	if o.Status == "" {
		o.Status = domain.OrderPending
	}
	if o.WaiterID == nil && o.CashierID == nil {
		// Attribute to whoever replays the batch.
		id := actor.ID
		if actor.Role == domain.RoleWaiter {
			o.WaiterID = &id
		} else {
			o.CashierID = &id
		}
	}
	if e.Order.CreatedAt != nil {
		if ts, err := time.Parse(time.RFC3339, *e.Order.CreatedAt); err == nil {
			o.CreatedAt = ts
		}
	}

	total := 0.0
	for _, line := range e.Order.Items {
		if line.Quantity <= 0 {
			return domain.Ef(domain.KindValidation, "invalid quantity for item %q", line.Name)
		}
		status := line.Status
		if status == "" {
			status = domain.ItemPending
		}
		// Offline snapshots carry their own prices; the catalog may have
		// changed while the terminal was disconnected.
		o.Items = append(o.Items, domain.OrderItem{
			ItemID:   line.ItemID,
			Name:     line.Name,
			ItemType: line.ItemType,
			Quantity: line.Quantity,
			Price:    line.Price,
			Status:   status,
		})
		total += float64(line.Quantity) * line.Price
	}
	if e.Order.TotalAmount != nil {
		o.TotalAmount = *e.Order.TotalAmount
	} else {
		o.TotalAmount = total
	}

	created, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		return err
	}
	_, err = s.store.CreateMapping(ctx, domain.SyncMapping{
		LocalID:    e.LocalID,
		ServerID:   created.ID,
		EntityType: domain.EntityOrder,
	})
	return err
}

func (s *Service) syncReceipt(ctx context.Context, e domain.SyncEntity) error {
	if _, err := s.store.GetMapping(ctx, e.LocalID, domain.EntityReceipt); err == nil {
		return nil
	} else if domain.KindOf(err) != domain.KindNotFound {
		return err
	}
	if e.Receipt == nil || e.Receipt.Content == "" {
		return domain.E(domain.KindValidation, "receipt entity requires content")
	}

	r := domain.Receipt{
		OrderID:      e.Receipt.OrderID,
		LocalOrderID: e.Receipt.LocalOrderID,
		Content:      e.Receipt.Content,
		Synced:       true,
	}
	if e.Receipt.PrintedAt != nil {
		if ts, err := time.Parse(time.RFC3339, *e.Receipt.PrintedAt); err == nil {
			r.PrintedAt = ts
		}
	}
	// A receipt printed against a local order id is linked through the order's
	// mapping when that order synced earlier in this or a previous batch.
	if r.OrderID == nil && r.LocalOrderID != nil {
		if m, err := s.store.GetMapping(ctx, *r.LocalOrderID, domain.EntityOrder); err == nil {
			serverID := m.ServerID
			r.OrderID = &serverID
		}
	}

	created, err := s.store.CreateReceipt(ctx, r)
	if err != nil {
		return err
	}
	_, err = s.store.CreateMapping(ctx, domain.SyncMapping{
		LocalID:    e.LocalID,
		ServerID:   created.ID,
		EntityType: domain.EntityReceipt,
	})
	return err
}
