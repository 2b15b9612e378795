package table

import (
	"context"
	"sync"
	"testing"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(event string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

var (
	waiter  = domain.Actor{ID: 1, Username: "w", Role: domain.RoleWaiter}
	cashier = domain.Actor{ID: 2, Username: "c", Role: domain.RoleCashier}
	admin   = domain.Actor{ID: 3, Username: "a", Role: domain.RoleAdmin}
	kitchen = domain.Actor{ID: 4, Username: "k", Role: domain.RoleKitchen}
)

func TestUpdateStatusRoleGating(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  domain.Actor
		status domain.TableStatus
		kind   domain.Kind // zero means success expected
	}{
		{"waiter occupies", waiter, domain.TableOccupied, ""},
		{"waiter requests bill", waiter, domain.TableBillRequested, ""},
		{"waiter may not mark paid", waiter, domain.TablePaid, domain.KindAuthorization},
		{"cashier marks paid", cashier, domain.TablePaid, ""},
		{"cashier reopens", cashier, domain.TableOpen, ""},
		{"cashier may not occupy", cashier, domain.TableOccupied, domain.KindAuthorization},
		{"admin sets anything", admin, domain.TableReserved, ""},
		{"kitchen may not touch tables", kitchen, domain.TableOccupied, domain.KindAuthorization},
		{"invalid status", admin, domain.TableStatus("bogus"), domain.KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := repository.NewMemory()
			table := store.AddTable(1)
			svc := NewService(store, &recorder{})

			got, err := svc.UpdateStatus(ctx, tc.actor, table.ID, domain.UpdateTableStatusRequest{Status: tc.status})
			if tc.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.Status != tc.status {
					t.Fatalf("status = %s, want %s", got.Status, tc.status)
				}
				return
			}
			if domain.KindOf(err) != tc.kind {
				t.Fatalf("kind = %s, want %s", domain.KindOf(err), tc.kind)
			}
			// A refused change leaves the table as it was.
			cur, _ := store.GetTable(ctx, table.ID)
			if cur.Status != domain.TableOpen {
				t.Fatalf("table status = %s after refused change", cur.Status)
			}
		})
	}
}

func TestUpdateStatusAssignsWaiter(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	table := store.AddTable(4)
	svc := NewService(store, &recorder{})

	got, err := svc.UpdateStatus(ctx, waiter, table.ID, domain.UpdateTableStatusRequest{
		Status: domain.TableOccupied, Occupants: 3,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if got.WaiterID == nil || *got.WaiterID != waiter.ID {
		t.Fatal("waiter not assigned to the table")
	}
	if got.Occupants != 3 {
		t.Fatalf("occupants = %d, want 3", got.Occupants)
	}

	// A later cashier action must not clear the assignment.
	got, err = svc.UpdateStatus(ctx, cashier, table.ID, domain.UpdateTableStatusRequest{Status: domain.TablePaid})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if got.WaiterID == nil || *got.WaiterID != waiter.ID {
		t.Fatal("cashier action cleared the waiter assignment")
	}
}

func TestBillRequestEmitsBothEvents(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	table := store.AddTable(2)
	rec := &recorder{}
	svc := NewService(store, rec)

	if _, err := svc.UpdateStatus(ctx, waiter, table.ID, domain.UpdateTableStatusRequest{Status: domain.TableBillRequested}); err != nil {
		t.Fatalf("request bill: %v", err)
	}
	if n := rec.count(domain.EventTableStatusUpdated); n != 1 {
		t.Fatalf("table_status_updated events = %d, want 1", n)
	}
	if n := rec.count(domain.EventBillRequested); n != 1 {
		t.Fatalf("bill_requested events = %d, want 1", n)
	}

	queued, err := svc.BillRequests(ctx)
	if err != nil {
		t.Fatalf("bill requests: %v", err)
	}
	if len(queued) != 1 || queued[0].ID != table.ID {
		t.Fatalf("bill queue = %+v, want the one requested table", queued)
	}
}

func TestAddReservation(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	table := store.AddTable(5)
	rec := &recorder{}
	svc := NewService(store, rec)

	_, err := svc.AddReservation(ctx, waiter, table.ID, domain.ReservationRequest{Name: "Smith"})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("incomplete reservation accepted: %v", err)
	}

	_, err = svc.AddReservation(ctx, cashier, table.ID, domain.ReservationRequest{
		Name: "Smith", Time: "19:00", Date: "2025-03-01",
	})
	if domain.KindOf(err) != domain.KindAuthorization {
		t.Fatalf("cashier reserved a table: %v", err)
	}

	got, err := svc.AddReservation(ctx, waiter, table.ID, domain.ReservationRequest{
		Name: "Smith", Time: "19:00", Date: "2025-03-01",
	})
	if err != nil {
		t.Fatalf("add reservation: %v", err)
	}
	if got.Status != domain.TableReserved {
		t.Fatalf("status = %s, want reserved", got.Status)
	}
	if got.Reservation == nil || got.Reservation.Name != "Smith" {
		t.Fatal("reservation metadata not stored")
	}
	if n := rec.count(domain.EventTableStatusUpdated); n != 1 {
		t.Fatalf("table_status_updated events = %d, want 1", n)
	}
}
