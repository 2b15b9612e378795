// Package repository defines the persistence interfaces the services depend on
// and their Postgres and in-memory implementations.
package repository

import (
	"context"

	"restaurant-pos/internal/domain"
)

type Users interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUser(ctx context.Context, id int) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListPINUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int) error
	CountByRole(ctx context.Context, role domain.Role) (int, error)
}

type Items interface {
	CreateItem(ctx context.Context, it domain.Item) (domain.Item, error)
	GetItem(ctx context.Context, id int) (domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	UpdateItem(ctx context.Context, it domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id int) error
}

// OrderFilter narrows GET /orders listings.
type OrderFilter struct {
	Status      *domain.OrderStatus
	TableNumber *int
}

type Orders interface {
	// CreateOrder persists the order and all its line items atomically.
	CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, id int) (domain.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (domain.Order, error)
	DeleteOrder(ctx context.Context, id int) error

	GetOrderItem(ctx context.Context, id int) (domain.OrderItem, error)
	ListOrderItems(ctx context.Context, orderID int) ([]domain.OrderItem, error)
	UpdateOrderItemStatus(ctx context.Context, id int, status domain.ItemStatus) (domain.OrderItem, error)
	// OrderItemView joins an order item with its catalog detail for events.
	OrderItemView(ctx context.Context, id int) (domain.ItemView, error)
	// CountItemsByType returns the food and drink line-item counts of an order.
	CountItemsByType(ctx context.Context, orderID int) (food, drink int, err error)
}

type Tables interface {
	ListTables(ctx context.Context) ([]domain.Table, error)
	GetTable(ctx context.Context, id int) (domain.Table, error)
	// UpdateTableStatus sets status and occupants; waiterID, when non-nil,
	// replaces the table's waiter assignment.
	UpdateTableStatus(ctx context.Context, id int, status domain.TableStatus, occupants int, waiterID *int) (domain.Table, error)
	SetReservation(ctx context.Context, id int, res domain.Reservation) (domain.Table, error)
	// BillRequests lists bill_requested tables oldest request first.
	BillRequests(ctx context.Context) ([]domain.Table, error)
}

type Receipts interface {
	CreateReceipt(ctx context.Context, r domain.Receipt) (domain.Receipt, error)
}

type Sales interface {
	// AddToDay additively upserts the row for date (YYYY-MM-DD). Concurrent
	// calls for the same date must not clobber each other.
	AddToDay(ctx context.Context, date string, amount float64) (domain.SalesReport, error)
	GetDay(ctx context.Context, date string) (domain.SalesReport, error)
	SalesBetween(ctx context.Context, from, to string) ([]domain.SalesReport, error)
}

type SyncMappings interface {
	GetMapping(ctx context.Context, localID string, t domain.EntityType) (domain.SyncMapping, error)
	CreateMapping(ctx context.Context, m domain.SyncMapping) (domain.SyncMapping, error)
}

// Store bundles every repository behind one value for wiring.
type Store interface {
	Users
	Items
	Orders
	Tables
	Receipts
	Sales
	SyncMappings
}
