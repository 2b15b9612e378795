package domain

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCashier   Role = "cashier"
	RoleWaiter    Role = "waiter"
	RoleKitchen   Role = "kitchen"
	RoleBartender Role = "bartender"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleWaiter, RoleKitchen, RoleBartender:
		return true
	}
	return false
}

// UsesPIN reports whether the role authenticates with a PIN pad instead of a password.
func (r Role) UsesPIN() bool {
	return r == RoleKitchen || r == RoleBartender || r == RoleWaiter
}

type ItemType string

const (
	ItemTypeFood  ItemType = "food"
	ItemTypeDrink ItemType = "drink"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in-progress"
	OrderReady      OrderStatus = "ready"
	OrderCompleted  OrderStatus = "completed"
	OrderPaid       OrderStatus = "paid"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderReady, OrderCompleted, OrderPaid:
		return true
	}
	return false
}

type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInProgress ItemStatus = "in-progress"
	ItemReady      ItemStatus = "ready"
)

func (s ItemStatus) Valid() bool {
	return s == ItemPending || s == ItemInProgress || s == ItemReady
}

type TableStatus string

const (
	TableOpen          TableStatus = "open"
	TableOccupied      TableStatus = "occupied"
	TableBillRequested TableStatus = "bill_requested"
	TableReserved      TableStatus = "reserved"
	TablePaid          TableStatus = "paid"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableOpen, TableOccupied, TableBillRequested, TableReserved, TablePaid:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash *string   `json:"-"`
	PINHash      *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the authenticated identity attached to a request.
type Actor struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

type Item struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ItemType    ItemType  `json:"item_type"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Order struct {
	ID          int         `json:"id"`
	WaiterID    *int        `json:"waiter_id,omitempty"`
	CashierID   *int        `json:"cashier_id,omitempty"`
	TableNumber *int        `json:"table_number,omitempty"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem snapshots the item's name, type and price at order time so later
// catalog changes do not alter historical orders.
type OrderItem struct {
	ID        int        `json:"id"`
	OrderID   int        `json:"order_id"`
	ItemID    int        `json:"item_id"`
	Name      string     `json:"name"`
	ItemType  ItemType   `json:"item_type"`
	Quantity  int        `json:"quantity"`
	Price     float64    `json:"price"`
	Status    ItemStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

func (oi OrderItem) Subtotal() float64 { return float64(oi.Quantity) * oi.Price }

type Reservation struct {
	Name  string  `json:"name"`
	Time  string  `json:"time"`
	Date  string  `json:"date"`
	Phone *string `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

type Table struct {
	ID          int          `json:"id"`
	Number      int          `json:"number"`
	Status      TableStatus  `json:"status"`
	Occupants   int          `json:"occupants"`
	WaiterID    *int         `json:"waiter_id,omitempty"`
	Reservation *Reservation `json:"reservation,omitempty"`
	LastUpdated time.Time    `json:"last_updated"`
}

// Receipt is an append-only record of a print action. LocalOrderID is set when
// the receipt was printed against a client-local draft order that has not been
// persisted server-side yet.
type Receipt struct {
	ID           int       `json:"id"`
	OrderID      *int      `json:"order_id,omitempty"`
	LocalOrderID *string   `json:"local_order_id,omitempty"`
	Content      string    `json:"content"`
	Synced       bool      `json:"synced"`
	PrintedAt    time.Time `json:"printed_at"`
}

// SalesReport is one additively-aggregated row per calendar date (YYYY-MM-DD).
type SalesReport struct {
	Date       string  `json:"date"`
	TotalSales float64 `json:"total_sales"`
}

type EntityType string

const (
	EntityOrder   EntityType = "order"
	EntityReceipt EntityType = "receipt"
)

// SyncMapping links a client-generated local id to the server-assigned id,
// making replayed sync batches idempotent.
type SyncMapping struct {
	ID         int        `json:"id"`
	LocalID    string     `json:"local_id"`
	ServerID   int        `json:"server_id"`
	EntityType EntityType `json:"entity_type"`
	CreatedAt  time.Time  `json:"created_at"`
}
