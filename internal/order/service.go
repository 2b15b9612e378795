// Package order implements the order lifecycle engine: creation, item status
// tracking and the order status pipeline through to payment.
package order

import (
	"context"
	"time"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/common/logging"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/notify"
	"restaurant-pos/internal/repository"
)

// Allowed-roles sets, declared once per operation and checked by the gate.
var (
	createOrderRoles       = []domain.Role{domain.RoleWaiter, domain.RoleCashier, domain.RoleAdmin}
	updateItemStatusRoles  = []domain.Role{domain.RoleKitchen, domain.RoleBartender, domain.RoleAdmin}
	updateOrderStatusRoles = []domain.Role{domain.RoleCashier, domain.RoleAdmin}
	deleteOrderRoles       = []domain.Role{domain.RoleAdmin}
	printReceiptRoles      = []domain.Role{domain.RoleWaiter, domain.RoleCashier, domain.RoleAdmin}
)

type Service struct {
	store repository.Store
	bus   notify.Publisher
	sched Scheduler

	// drinkDelay is how long after creation still-pending drink items are
	// flipped to ready automatically.
	drinkDelay time.Duration

	now func() time.Time
}

func NewService(store repository.Store, bus notify.Publisher, sched Scheduler, drinkDelay time.Duration) *Service {
	return &Service{
		store:      store,
		bus:        bus,
		sched:      sched,
		drinkDelay: drinkDelay,
		now:        time.Now,
	}
}

// CreateOrder validates the request, snapshots catalog prices into line items
// and persists the order atomically. Line-item prices are always looked up
// server-side; client prices are only honored on the offline-sync path.
func (s *Service) CreateOrder(ctx context.Context, actor domain.Actor, req domain.CreateOrderRequest) (domain.Order, error) {
	if err := auth.Require(actor, createOrderRoles...); err != nil {
		return domain.Order{}, err
	}
	if len(req.Items) == 0 {
		return domain.Order{}, domain.E(domain.KindValidation, "at least one item is required")
	}

	o := domain.Order{
		TableNumber: req.TableNumber,
		Status:      domain.OrderPending,
	}
	switch actor.Role {
	case domain.RoleWaiter:
		// Orders a waiter enters are attributed to that waiter.
		id := actor.ID
		o.WaiterID = &id
	case domain.RoleCashier:
		// A cashier enters the order on a waiter's behalf.
		if req.WaiterID == nil {
			return domain.Order{}, domain.E(domain.KindValidation, "waiter_id is required when a cashier creates an order")
		}
		o.WaiterID = req.WaiterID
		id := actor.ID
		o.CashierID = &id
	default:
		o.WaiterID = req.WaiterID
		id := actor.ID
		o.CashierID = &id
	}

	total := 0.0
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return domain.Order{}, domain.Ef(domain.KindValidation, "invalid quantity for item %d", line.ItemID)
		}
		item, err := s.store.GetItem(ctx, line.ItemID)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				return domain.Order{}, domain.Ef(domain.KindValidation, "unknown item %d", line.ItemID)
			}
			return domain.Order{}, err
		}
		o.Items = append(o.Items, domain.OrderItem{
			ItemID:   item.ID,
			Name:     item.Name,
			ItemType: item.ItemType,
			Quantity: line.Quantity,
			Price:    item.Price,
			Status:   domain.ItemPending,
		})
		total += float64(line.Quantity) * item.Price
	}
	o.TotalAmount = total

	created, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}

	s.bus.Publish(domain.EventOrderCreated, created)
	for _, it := range created.Items {
		view, err := s.store.OrderItemView(ctx, it.ID)
		if err != nil {
			view = itemViewOf(it)
		}
		event := domain.EventNewFoodOrder
		if it.ItemType == domain.ItemTypeDrink {
			event = domain.EventNewDrinkOrder
		}
		s.bus.Publish(event, domain.NewOrderItemEvent{
			OrderID:     created.ID,
			TableNumber: created.TableNumber,
			Item:        view,
		})
	}

	s.scheduleDrinkAutoReady(created)

	logging.Info().Int("order_id", created.ID).Float64("total", created.TotalAmount).
		Int("items", len(created.Items)).Msg("order created")
	return created, nil
}

// scheduleDrinkAutoReady defers flipping still-pending drink items to ready.
// Drinks are served immediately in practice; the timer just saves the bar
// terminal the bookkeeping. The task tolerates the order or its items having
// been deleted or moved on in the meantime.
func (s *Service) scheduleDrinkAutoReady(o domain.Order) {
	var drinkIDs []int
	for _, it := range o.Items {
		if it.ItemType == domain.ItemTypeDrink {
			drinkIDs = append(drinkIDs, it.ID)
		}
	}
	if len(drinkIDs) == 0 || s.drinkDelay <= 0 {
		return
	}
	s.sched.Schedule(s.drinkDelay, func(ctx context.Context) {
		for _, id := range drinkIDs {
			it, err := s.store.GetOrderItem(ctx, id)
			if err != nil || it.Status != domain.ItemPending {
				continue
			}
			updated, err := s.store.UpdateOrderItemStatus(ctx, id, domain.ItemReady)
			if err != nil {
				continue
			}
			view, err := s.store.OrderItemView(ctx, updated.ID)
			if err != nil {
				view = itemViewOf(updated)
			}
			s.bus.Publish(domain.EventOrderItemUpdated, view)
		}
	})
}

// UpdateItemStatus changes one line item's preparation status. Kitchen mutates
// food, bartender mutates drinks, admin mutates anything. No ordering between
// pending, in-progress and ready is enforced.
func (s *Service) UpdateItemStatus(ctx context.Context, actor domain.Actor, orderItemID int, status domain.ItemStatus) (domain.OrderItem, error) {
	if err := auth.Require(actor, updateItemStatusRoles...); err != nil {
		return domain.OrderItem{}, err
	}
	if !status.Valid() {
		return domain.OrderItem{}, domain.Ef(domain.KindValidation, "invalid item status %q", status)
	}

	it, err := s.store.GetOrderItem(ctx, orderItemID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	switch actor.Role {
	case domain.RoleKitchen:
		if it.ItemType != domain.ItemTypeFood {
			return domain.OrderItem{}, domain.E(domain.KindAuthorization, "kitchen may only update food items")
		}
	case domain.RoleBartender:
		if it.ItemType != domain.ItemTypeDrink {
			return domain.OrderItem{}, domain.E(domain.KindAuthorization, "bartender may only update drink items")
		}
	}

	updated, err := s.store.UpdateOrderItemStatus(ctx, orderItemID, status)
	if err != nil {
		return domain.OrderItem{}, err
	}

	view, err := s.store.OrderItemView(ctx, updated.ID)
	if err != nil {
		view = itemViewOf(updated)
	}
	s.bus.Publish(domain.EventOrderItemUpdated, view)
	return updated, nil
}

// UpdateOrderStatus moves the order through its pipeline. Completion and
// payment additionally fold the order total into today's sales report; a
// failed report upsert is logged but never rolls back the status change.
func (s *Service) UpdateOrderStatus(ctx context.Context, actor domain.Actor, orderID int, status domain.OrderStatus, paymentAmount *float64) (domain.Order, error) {
	if err := auth.Require(actor, updateOrderStatusRoles...); err != nil {
		return domain.Order{}, err
	}
	if !status.Valid() {
		return domain.Order{}, domain.Ef(domain.KindValidation, "invalid order status %q", status)
	}

	updated, err := s.store.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return domain.Order{}, err
	}

	food, drink, err := s.store.CountItemsByType(ctx, orderID)
	if err != nil {
		logging.Error().Err(err).Int("order_id", orderID).Msg("failed to count order items")
	}
	s.bus.Publish(domain.EventOrderStatusUpdated, domain.OrderStatusEvent{
		OrderID:     updated.ID,
		Status:      updated.Status,
		TotalAmount: updated.TotalAmount,
		FoodCount:   food,
		DrinkCount:  drink,
	})

	if status == domain.OrderCompleted || status == domain.OrderPaid {
		date := s.now().Format("2006-01-02")
		report, err := s.store.AddToDay(ctx, date, updated.TotalAmount)
		if err != nil {
			// Order-state durability wins over report accuracy.
			logging.Error().Err(err).Int("order_id", orderID).Str("date", date).
				Msg("sales report upsert failed, order status change kept")
		} else {
			update := domain.SalesUpdateEvent{Date: report.Date, TotalSales: report.TotalSales}
			s.bus.Publish(domain.EventSalesDataUpdated, update)
			s.bus.Publish(domain.EventAdminSalesUpdated, update)
		}
		if paymentAmount != nil {
			logging.Info().Int("order_id", orderID).Float64("payment", *paymentAmount).Msg("payment recorded")
		}
	}
	return updated, nil
}

// GetOrder, ListOrders and ListOrderItems are read paths available to every
// authenticated terminal.
func (s *Service) GetOrder(ctx context.Context, id int) (domain.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	return s.store.ListOrders(ctx, f)
}

func (s *Service) ListOrderItems(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.store.ListOrderItems(ctx, orderID)
}

// DeleteOrder is the administrative correction path.
func (s *Service) DeleteOrder(ctx context.Context, actor domain.Actor, id int) error {
	if err := auth.Require(actor, deleteOrderRoles...); err != nil {
		return err
	}
	return s.store.DeleteOrder(ctx, id)
}

// PrintReceipt appends an audit record of a print action. Receipts against a
// client-local draft order carry the local id until the order syncs.
func (s *Service) PrintReceipt(ctx context.Context, actor domain.Actor, req domain.PrintReceiptRequest) (domain.Receipt, error) {
	if err := auth.Require(actor, printReceiptRoles...); err != nil {
		return domain.Receipt{}, err
	}
	if req.Content == "" {
		return domain.Receipt{}, domain.E(domain.KindValidation, "receipt content is required")
	}
	if req.OrderID == nil && req.LocalOrderID == nil {
		return domain.Receipt{}, domain.E(domain.KindValidation, "order_id or local_order_id is required")
	}
	if req.OrderID != nil {
		if _, err := s.store.GetOrder(ctx, *req.OrderID); err != nil {
			return domain.Receipt{}, err
		}
	}

	r, err := s.store.CreateReceipt(ctx, domain.Receipt{
		OrderID:      req.OrderID,
		LocalOrderID: req.LocalOrderID,
		Content:      req.Content,
	})
	if err != nil {
		return domain.Receipt{}, err
	}
	s.bus.Publish(domain.EventReceiptPrinted, r)
	return r, nil
}

func itemViewOf(it domain.OrderItem) domain.ItemView {
	return domain.ItemView{
		OrderItemID: it.ID, OrderID: it.OrderID, ItemID: it.ItemID,
		Name: it.Name, ItemType: it.ItemType, Quantity: it.Quantity,
		Price: it.Price, Status: it.Status,
	}
}
