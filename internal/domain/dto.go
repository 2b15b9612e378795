package domain

// Request and response shapes for the HTTP surface. Validation tags are
// enforced by the httpapi layer before a request reaches a service.

type LoginRequest struct {
	Username    string `json:"username,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Password    string `json:"password,omitempty"`
	PinCode     string `json:"pin_code,omitempty"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

type LoginUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

type CreateOrderItem struct {
	ItemID   int      `json:"item_id" validate:"required,gt=0"`
	Quantity int      `json:"quantity" validate:"required,gt=0"`
	Price    *float64 `json:"price,omitempty"`
}

type CreateOrderRequest struct {
	WaiterID    *int              `json:"waiter_id,omitempty"`
	TableNumber *int              `json:"table_number,omitempty"`
	TotalAmount *float64          `json:"total_amount,omitempty"`
	Items       []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
}

type UpdateItemStatusRequest struct {
	Status ItemStatus `json:"status" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status        OrderStatus `json:"status" validate:"required"`
	PaymentAmount *float64    `json:"payment_amount,omitempty"`
}

type UpdateTableStatusRequest struct {
	Status    TableStatus `json:"status" validate:"required"`
	Occupants int         `json:"occupants,omitempty" validate:"gte=0"`
}

type ReservationRequest struct {
	Name  string  `json:"name" validate:"required"`
	Time  string  `json:"time" validate:"required"`
	Date  string  `json:"date" validate:"required"`
	Phone *string `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

type CreateItemRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description,omitempty"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	ItemType    ItemType `json:"item_type" validate:"required,oneof=food drink"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

type CreateUserRequest struct {
	Username    string  `json:"username" validate:"required"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Role        Role    `json:"role" validate:"required"`
	Password    string  `json:"password,omitempty"`
	PinCode     string  `json:"pin_code,omitempty"`
}

type PrintReceiptRequest struct {
	OrderID      *int    `json:"order_id,omitempty"`
	LocalOrderID *string `json:"local_order_id,omitempty"`
	Content      string  `json:"content" validate:"required"`
}

// SyncEntity is one element of an offline sync batch, tagged by entity type.
type SyncEntity struct {
	Type    EntityType   `json:"type"`
	LocalID string       `json:"local_id"`
	Order   *SyncOrder   `json:"order,omitempty"`
	Receipt *SyncReceipt `json:"receipt,omitempty"`
}

// SyncOrder carries client prices because the terminal's catalog snapshot may
// have drifted while it was offline.
type SyncOrder struct {
	WaiterID    *int            `json:"waiter_id,omitempty"`
	CashierID   *int            `json:"cashier_id,omitempty"`
	TableNumber *int            `json:"table_number,omitempty"`
	TotalAmount *float64        `json:"total_amount,omitempty"`
	Status      OrderStatus     `json:"status,omitempty"`
	CreatedAt   *string         `json:"created_at,omitempty"`
	Items       []SyncOrderItem `json:"items"`
}

type SyncOrderItem struct {
	ItemID   int        `json:"item_id"`
	Name     string     `json:"name"`
	ItemType ItemType   `json:"item_type"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
	Status   ItemStatus `json:"status,omitempty"`
}

type SyncReceipt struct {
	LocalOrderID *string `json:"local_order_id,omitempty"`
	OrderID      *int    `json:"order_id,omitempty"`
	Content      string  `json:"content"`
	PrintedAt    *string `json:"printed_at,omitempty"`
}

type SyncRequest struct {
	Entities []SyncEntity `json:"entities" validate:"required,min=1"`
}

type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// CashierDashboard aggregates what a cashier terminal renders on load.
type CashierDashboard struct {
	OpenOrders   []Order     `json:"open_orders"`
	BillRequests []Table     `json:"bill_requests"`
	TodaySales   SalesReport `json:"today_sales"`
}

// SalesRange is an aggregate over a named time range (week, month, year).
type SalesRange struct {
	Range      string        `json:"range"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	TotalSales float64       `json:"total_sales"`
	Daily      []SalesReport `json:"daily"`
}
