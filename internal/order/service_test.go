package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

// recorder captures published events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []recorded
}

type recorded struct {
	name    string
	payload any
}

func (r *recorder) Publish(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{name: event, payload: payload})
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.name == event {
			n++
		}
	}
	return n
}

func setup(t *testing.T) (*Service, *repository.Memory, *recorder, *FakeScheduler) {
	t.Helper()
	store := repository.NewMemory()
	rec := &recorder{}
	sched := NewFakeScheduler()
	svc := NewService(store, rec, sched, 300*time.Second)
	return svc, store, rec, sched
}

func seedItems(t *testing.T, store *repository.Memory) (food, drink domain.Item) {
	t.Helper()
	ctx := context.Background()
	food, err := store.CreateItem(ctx, domain.Item{Name: "Burger", Price: 10, ItemType: domain.ItemTypeFood})
	if err != nil {
		t.Fatalf("create food item: %v", err)
	}
	drink, err = store.CreateItem(ctx, domain.Item{Name: "Cola", Price: 5, ItemType: domain.ItemTypeDrink})
	if err != nil {
		t.Fatalf("create drink item: %v", err)
	}
	return food, drink
}

var (
	waiter    = domain.Actor{ID: 1, Username: "w", Role: domain.RoleWaiter}
	cashier   = domain.Actor{ID: 2, Username: "c", Role: domain.RoleCashier}
	admin     = domain.Actor{ID: 3, Username: "a", Role: domain.RoleAdmin}
	kitchen   = domain.Actor{ID: 4, Username: "k", Role: domain.RoleKitchen}
	bartender = domain.Actor{ID: 5, Username: "b", Role: domain.RoleBartender}
)

func TestCreateOrderComputesTotal(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := setup(t)
	food, drink := seedItems(t, store)

	o, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{
			{ItemID: food.ID, Quantity: 2},
			{ItemID: drink.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.TotalAmount != 25 {
		t.Fatalf("total = %v, want 25", o.TotalAmount)
	}
	if len(o.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(o.Items))
	}
	for _, it := range o.Items {
		if it.Status != domain.ItemPending {
			t.Fatalf("item %d status = %s, want pending", it.ID, it.Status)
		}
	}
	if o.WaiterID == nil || *o.WaiterID != waiter.ID {
		t.Fatalf("order not attributed to waiter")
	}

	sum := 0.0
	persisted, err := store.GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	for _, it := range persisted.Items {
		sum += it.Subtotal()
	}
	if sum != persisted.TotalAmount {
		t.Fatalf("sum of subtotals %v != total %v", sum, persisted.TotalAmount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := setup(t)
	food, _ := seedItems(t, store)

	tests := []struct {
		name  string
		actor domain.Actor
		req   domain.CreateOrderRequest
		kind  domain.Kind
	}{
		{"no items", waiter, domain.CreateOrderRequest{}, domain.KindValidation},
		{"zero quantity", waiter, domain.CreateOrderRequest{
			Items: []domain.CreateOrderItem{{ItemID: food.ID, Quantity: 0}},
		}, domain.KindValidation},
		{"unknown item", waiter, domain.CreateOrderRequest{
			Items: []domain.CreateOrderItem{{ItemID: 999, Quantity: 1}},
		}, domain.KindValidation},
		{"cashier without waiter", cashier, domain.CreateOrderRequest{
			Items: []domain.CreateOrderItem{{ItemID: food.ID, Quantity: 1}},
		}, domain.KindValidation},
		{"kitchen may not create", kitchen, domain.CreateOrderRequest{
			Items: []domain.CreateOrderItem{{ItemID: food.ID, Quantity: 1}},
		}, domain.KindAuthorization},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tc.actor, tc.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := domain.KindOf(err); got != tc.kind {
				t.Fatalf("kind = %s, want %s", got, tc.kind)
			}
		})
	}
}

func TestCreateOrderByCashierOnWaitersBehalf(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := setup(t)
	food, _ := seedItems(t, store)

	waiterID := 7
	o, err := svc.CreateOrder(ctx, cashier, domain.CreateOrderRequest{
		WaiterID: &waiterID,
		Items:    []domain.CreateOrderItem{{ItemID: food.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.WaiterID == nil || *o.WaiterID != waiterID {
		t.Fatalf("waiter_id not taken from request")
	}
	if o.CashierID == nil || *o.CashierID != cashier.ID {
		t.Fatalf("cashier_id not set to actor")
	}
}

func TestCreateOrderEventsPartitionedByItemType(t *testing.T) {
	ctx := context.Background()
	svc, store, rec, _ := setup(t)
	food, drink := seedItems(t, store)

	_, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{
			{ItemID: food.ID, Quantity: 1},
			{ItemID: food.ID, Quantity: 2},
			{ItemID: drink.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if n := rec.count(domain.EventOrderCreated); n != 1 {
		t.Fatalf("order_created events = %d, want 1", n)
	}
	if n := rec.count(domain.EventNewFoodOrder); n != 2 {
		t.Fatalf("new_food_order events = %d, want 2", n)
	}
	if n := rec.count(domain.EventNewDrinkOrder); n != 1 {
		t.Fatalf("new_drink_order events = %d, want 1", n)
	}
}

func TestOrderItemPriceSurvivesCatalogChange(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := setup(t)
	food, _ := seedItems(t, store)

	o, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{{ItemID: food.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	food.Price = 99
	if _, err := store.UpdateItem(ctx, food); err != nil {
		t.Fatalf("update item: %v", err)
	}

	persisted, err := store.GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if persisted.Items[0].Price != 10 {
		t.Fatalf("historical price = %v, want 10", persisted.Items[0].Price)
	}
}

func TestUpdateItemStatusRoleGating(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := setup(t)
	food, drink := seedItems(t, store)

	o, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{
			{ItemID: food.ID, Quantity: 1},
			{ItemID: drink.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	foodItem, drinkItem := o.Items[0], o.Items[1]

	// Kitchen touching a drink item fails and leaves the item untouched.
	_, err = svc.UpdateItemStatus(ctx, kitchen, drinkItem.ID, domain.ItemReady)
	if domain.KindOf(err) != domain.KindAuthorization {
		t.Fatalf("kind = %s, want authorization", domain.KindOf(err))
	}
	unchanged, _ := store.GetOrderItem(ctx, drinkItem.ID)
	if unchanged.Status != domain.ItemPending {
		t.Fatalf("drink item status = %s, want pending", unchanged.Status)
	}

	if _, err := svc.UpdateItemStatus(ctx, bartender, foodItem.ID, domain.ItemReady); domain.KindOf(err) != domain.KindAuthorization {
		t.Fatal("bartender updated a food item")
	}
	if _, err := svc.UpdateItemStatus(ctx, waiter, foodItem.ID, domain.ItemReady); domain.KindOf(err) != domain.KindAuthorization {
		t.Fatal("waiter updated an order item")
	}

	// Kitchen on food, bartender on drink, admin on anything.
	if _, err := svc.UpdateItemStatus(ctx, kitchen, foodItem.ID, domain.ItemInProgress); err != nil {
		t.Fatalf("kitchen on food: %v", err)
	}
	if _, err := svc.UpdateItemStatus(ctx, bartender, drinkItem.ID, domain.ItemInProgress); err != nil {
		t.Fatalf("bartender on drink: %v", err)
	}
	if _, err := svc.UpdateItemStatus(ctx, admin, drinkItem.ID, domain.ItemReady); err != nil {
		t.Fatalf("admin on drink: %v", err)
	}

	// Backward transitions are accepted.
	it, err := svc.UpdateItemStatus(ctx, admin, drinkItem.ID, domain.ItemPending)
	if err != nil {
		t.Fatalf("backward transition: %v", err)
	}
	if it.Status != domain.ItemPending {
		t.Fatalf("status = %s, want pending", it.Status)
	}
}

func TestUpdateItemStatusEmitsJoinedDetail(t *testing.T) {
	ctx := context.Background()
	svc, store, rec, _ := setup(t)
	desc := "flame grilled"
	item, err := store.CreateItem(ctx, domain.Item{Name: "Burger", Description: &desc, Price: 10, ItemType: domain.ItemTypeFood})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	o, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{{ItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := svc.UpdateItemStatus(ctx, kitchen, o.Items[0].ID, domain.ItemReady); err != nil {
		t.Fatalf("update item status: %v", err)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	last := rec.events[len(rec.events)-1]
	if last.name != domain.EventOrderItemUpdated {
		t.Fatalf("last event = %s, want %s", last.name, domain.EventOrderItemUpdated)
	}
	view, ok := last.payload.(domain.ItemView)
	if !ok {
		t.Fatalf("payload type %T", last.payload)
	}
	if view.Description == nil || *view.Description != desc {
		t.Fatal("event payload missing joined item description")
	}
}

func TestUpdateOrderStatusAddsSalesPerCall(t *testing.T) {
	ctx := context.Background()
	svc, store, rec, _ := setup(t)
	food, _ := seedItems(t, store)

	o, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{{ItemID: food.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := svc.UpdateOrderStatus(ctx, cashier, o.ID, domain.OrderCompleted, nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	date := time.Now().Format("2006-01-02")
	day, _ := store.GetDay(ctx, date)
	if day.TotalSales != 20 {
		t.Fatalf("total after one completion = %v, want 20", day.TotalSales)
	}

	// Additive on every call: a second completion adds again, no dedup.
	if _, err := svc.UpdateOrderStatus(ctx, cashier, o.ID, domain.OrderCompleted, nil); err != nil {
		t.Fatalf("second complete: %v", err)
	}
	day, _ = store.GetDay(ctx, date)
	if day.TotalSales != 40 {
		t.Fatalf("total after two completions = %v, want 40", day.TotalSales)
	}

	if n := rec.count(domain.EventOrderStatusUpdated); n != 2 {
		t.Fatalf("order_status_updated events = %d, want 2", n)
	}
	if n := rec.count(domain.EventSalesDataUpdated); n != 2 {
		t.Fatalf("sales_data_updated events = %d, want 2", n)
	}
	if n := rec.count(domain.EventAdminSalesUpdated); n != 2 {
		t.Fatalf("admin_sales_updated events = %d, want 2", n)
	}
}

func TestUpdateOrderStatusRoleGating(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := setup(t)
	food, _ := seedItems(t, store)
	o, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{{ItemID: food.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := svc.UpdateOrderStatus(ctx, waiter, o.ID, domain.OrderPaid, nil); domain.KindOf(err) != domain.KindAuthorization {
		t.Fatal("waiter changed order status")
	}
	if _, err := svc.UpdateOrderStatus(ctx, cashier, o.ID, domain.OrderStatus("bogus"), nil); domain.KindOf(err) != domain.KindValidation {
		t.Fatal("bogus status accepted")
	}
}

func TestDrinkAutoReadyAfterDelay(t *testing.T) {
	ctx := context.Background()
	svc, store, rec, sched := setup(t)
	food, drink := seedItems(t, store)

	o, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{
			{ItemID: food.ID, Quantity: 1},
			{ItemID: drink.ID, Quantity: 1},
			{ItemID: drink.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	// The bartender already served one drink.
	served := o.Items[1]
	if _, err := svc.UpdateItemStatus(ctx, bartender, served.ID, domain.ItemInProgress); err != nil {
		t.Fatalf("serve drink: %v", err)
	}

	before := rec.count(domain.EventOrderItemUpdated)
	sched.Advance(300 * time.Second)

	still, _ := store.GetOrderItem(ctx, o.Items[0].ID)
	if still.Status != domain.ItemPending {
		t.Fatalf("food item flipped to %s", still.Status)
	}
	inProgress, _ := store.GetOrderItem(ctx, served.ID)
	if inProgress.Status != domain.ItemInProgress {
		t.Fatalf("non-pending drink overwritten to %s", inProgress.Status)
	}
	auto, _ := store.GetOrderItem(ctx, o.Items[2].ID)
	if auto.Status != domain.ItemReady {
		t.Fatalf("pending drink status = %s, want ready", auto.Status)
	}
	if got := rec.count(domain.EventOrderItemUpdated) - before; got != 1 {
		t.Fatalf("auto-ready emitted %d item events, want 1", got)
	}
}

func TestDrinkAutoReadySkipsDeletedOrder(t *testing.T) {
	ctx := context.Background()
	svc, store, _, sched := setup(t)
	_, drink := seedItems(t, store)

	o, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{{ItemID: drink.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := svc.DeleteOrder(ctx, admin, o.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	// Must not panic or resurrect rows.
	sched.Advance(301 * time.Second)
	if _, err := store.GetOrderItem(ctx, o.Items[0].ID); domain.KindOf(err) != domain.KindNotFound {
		t.Fatal("deleted order item came back")
	}
}

func TestSalesReportFailureKeepsStatusChange(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	rec := &recorder{}
	svc := NewService(&failingSales{Memory: store}, rec, NewFakeScheduler(), 0)
	food, _ := seedItems(t, store)

	o, err := svc.CreateOrder(ctx, waiter, domain.CreateOrderRequest{
		Items: []domain.CreateOrderItem{{ItemID: food.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	updated, err := svc.UpdateOrderStatus(ctx, cashier, o.ID, domain.OrderCompleted, nil)
	if err != nil {
		t.Fatalf("status change rolled back on report failure: %v", err)
	}
	if updated.Status != domain.OrderCompleted {
		t.Fatalf("status = %s, want completed", updated.Status)
	}
	if n := rec.count(domain.EventSalesDataUpdated); n != 0 {
		t.Fatalf("sales event emitted despite upsert failure")
	}
}

// failingSales wraps the memory store with a sales upsert that always fails.
type failingSales struct {
	*repository.Memory
}

func (f *failingSales) AddToDay(context.Context, string, float64) (domain.SalesReport, error) {
	return domain.SalesReport{}, domain.Wrap(domain.KindStorage, "failed to upsert sales report", errors.New("disk full"))
}
