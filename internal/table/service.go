// Package table tracks physical table state: occupancy, reservations and the
// bill-request queue feeding cashier terminals.
package table

import (
	"context"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/common/logging"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/notify"
	"restaurant-pos/internal/repository"
)

var reservationRoles = []domain.Role{domain.RoleWaiter, domain.RoleAdmin}

type Service struct {
	store repository.Tables
	bus   notify.Publisher
}

func NewService(store repository.Tables, bus notify.Publisher) *Service {
	return &Service{store: store, bus: bus}
}

// UpdateStatus applies a role-gated status change. Waiters may set anything
// except paid; cashiers only paid or open; admin is unrestricted. A waiter
// actor also becomes the table's assigned waiter.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, tableID int, req domain.UpdateTableStatusRequest) (domain.Table, error) {
	if !req.Status.Valid() {
		return domain.Table{}, domain.Ef(domain.KindValidation, "invalid table status %q", req.Status)
	}

	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleWaiter:
		if req.Status == domain.TablePaid {
			return domain.Table{}, domain.E(domain.KindAuthorization, "waiter may not mark a table paid")
		}
	case domain.RoleCashier:
		if req.Status != domain.TablePaid && req.Status != domain.TableOpen {
			return domain.Table{}, domain.E(domain.KindAuthorization, "cashier may only mark a table paid or open")
		}
	default:
		return domain.Table{}, domain.Ef(domain.KindAuthorization, "role %s may not update tables", actor.Role)
	}

	var waiterID *int
	if actor.Role == domain.RoleWaiter {
		id := actor.ID
		waiterID = &id
	}

	t, err := s.store.UpdateTableStatus(ctx, tableID, req.Status, req.Occupants, waiterID)
	if err != nil {
		return domain.Table{}, err
	}

	s.bus.Publish(domain.EventTableStatusUpdated, t)
	if t.Status == domain.TableBillRequested {
		// Targeted event so cashier terminals can queue it distinctly.
		s.bus.Publish(domain.EventBillRequested, domain.BillRequestedEvent{
			TableID:     t.ID,
			TableNumber: t.Number,
			WaiterID:    t.WaiterID,
		})
	}

	logging.Info().Int("table_id", t.ID).Str("status", string(t.Status)).Msg("table status updated")
	return t, nil
}

// AddReservation stores reservation metadata and unconditionally marks the
// table reserved.
func (s *Service) AddReservation(ctx context.Context, actor domain.Actor, tableID int, req domain.ReservationRequest) (domain.Table, error) {
	if err := auth.Require(actor, reservationRoles...); err != nil {
		return domain.Table{}, err
	}
	if req.Name == "" || req.Time == "" || req.Date == "" {
		return domain.Table{}, domain.E(domain.KindValidation, "reservation name, time and date are required")
	}

	t, err := s.store.SetReservation(ctx, tableID, domain.Reservation{
		Name: req.Name, Time: req.Time, Date: req.Date,
		Phone: req.Phone, Notes: req.Notes,
	})
	if err != nil {
		return domain.Table{}, err
	}

	s.bus.Publish(domain.EventTableStatusUpdated, t)
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Table, error) {
	return s.store.ListTables(ctx)
}

// BillRequests lists tables waiting for a bill, oldest request first.
func (s *Service) BillRequests(ctx context.Context) ([]domain.Table, error) {
	return s.store.BillRequests(ctx)
}
