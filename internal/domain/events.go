package domain

// Event names broadcast to every connected terminal. Filtering by relevance is
// the receiving terminal's responsibility.
const (
	EventOrderCreated       = "order_created"
	EventNewFoodOrder       = "new_food_order"
	EventNewDrinkOrder      = "new_drink_order"
	EventOrderItemUpdated   = "order_item_updated"
	EventOrderStatusUpdated = "order_status_updated"
	EventSalesDataUpdated   = "sales_data_updated"
	EventAdminSalesUpdated  = "admin_sales_updated"
	EventTableStatusUpdated = "table_status_updated"
	EventBillRequested      = "bill_requested"
	EventReceiptPrinted     = "receipt_printed"
)

// NewOrderItemEvent is emitted once per line item on order creation, as
// new_food_order or new_drink_order depending on the item type.
type NewOrderItemEvent struct {
	OrderID     int      `json:"order_id"`
	TableNumber *int     `json:"table_number,omitempty"`
	Item        ItemView `json:"item"`
}

// ItemView is an order item joined with its catalog detail for display.
type ItemView struct {
	OrderItemID int        `json:"order_item_id"`
	OrderID     int        `json:"order_id"`
	ItemID      int        `json:"item_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	ItemType    ItemType   `json:"item_type"`
	Quantity    int        `json:"quantity"`
	Price       float64    `json:"price"`
	Status      ItemStatus `json:"status"`
}

type OrderStatusEvent struct {
	OrderID     int         `json:"order_id"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	FoodCount   int         `json:"food_count"`
	DrinkCount  int         `json:"drink_count"`
}

type SalesUpdateEvent struct {
	Date       string  `json:"date"`
	TotalSales float64 `json:"total_sales"`
}

type BillRequestedEvent struct {
	TableID     int  `json:"table_id"`
	TableNumber int  `json:"table_number"`
	WaiterID    *int `json:"waiter_id,omitempty"`
}
