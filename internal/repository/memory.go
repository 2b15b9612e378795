package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"restaurant-pos/internal/domain"
)

// Memory is an in-memory Store used by tests and local development. Every
// method copies values in and out so callers never share map-backed state.
type Memory struct {
	mu         sync.RWMutex
	nextID     int
	users      map[int]domain.User
	items      map[int]domain.Item
	orders     map[int]domain.Order
	orderItems map[int]domain.OrderItem
	tables     map[int]domain.Table
	receipts   map[int]domain.Receipt
	sales      map[string]float64
	mappings   map[string]domain.SyncMapping // key: entityType + "/" + localID

	// FailCreateOrder, when set, makes the next CreateOrder call fail. Used by
	// tests exercising partial-failure policies.
	FailCreateOrder error
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		nextID:     1,
		users:      make(map[int]domain.User),
		items:      make(map[int]domain.Item),
		orders:     make(map[int]domain.Order),
		orderItems: make(map[int]domain.OrderItem),
		tables:     make(map[int]domain.Table),
		receipts:   make(map[int]domain.Receipt),
		sales:      make(map[string]float64),
		mappings:   make(map[string]domain.SyncMapping),
	}
}

func (m *Memory) id() int { id := m.nextID; m.nextID++; return id }

// --- users ---

func (m *Memory) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	u.CreatedAt = time.Now()
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) GetUser(_ context.Context, id int) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.E(domain.KindNotFound, "user not found")
	}
	return u, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.E(domain.KindNotFound, "user not found")
}

func (m *Memory) GetUserByPhone(_ context.Context, phone string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.PhoneNumber != nil && *u.PhoneNumber == phone {
			return u, nil
		}
	}
	return domain.User{}, domain.E(domain.KindNotFound, "user not found")
}

func (m *Memory) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *Memory) ListPINUsers(ctx context.Context) ([]domain.User, error) {
	all, _ := m.ListUsers(ctx)
	var users []domain.User
	for _, u := range all {
		if u.PINHash != nil {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *Memory) DeleteUser(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.E(domain.KindNotFound, "user not found")
	}
	delete(m.users, id)
	return nil
}

func (m *Memory) CountByRole(_ context.Context, role domain.Role) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// --- items ---

func (m *Memory) CreateItem(_ context.Context, it domain.Item) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = m.id()
	it.CreatedAt = time.Now()
	m.items[it.ID] = it
	return it, nil
}

func (m *Memory) GetItem(_ context.Context, id int) (domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return domain.Item{}, domain.E(domain.KindNotFound, "item not found")
	}
	return it, nil
}

func (m *Memory) ListItems(_ context.Context) ([]domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]domain.Item, 0, len(m.items))
	for _, it := range m.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *Memory) UpdateItem(_ context.Context, it domain.Item) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[it.ID]
	if !ok {
		return domain.Item{}, domain.E(domain.KindNotFound, "item not found")
	}
	// item_type is immutable
	it.ItemType = cur.ItemType
	it.CreatedAt = cur.CreatedAt
	m.items[it.ID] = it
	return it, nil
}

func (m *Memory) DeleteItem(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.E(domain.KindNotFound, "item not found")
	}
	delete(m.items, id)
	return nil
}

// --- orders ---

func (m *Memory) CreateOrder(_ context.Context, o domain.Order) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreateOrder != nil {
		err := m.FailCreateOrder
		m.FailCreateOrder = nil
		return domain.Order{}, domain.Wrap(domain.KindStorage, "failed to insert order", err)
	}
	o.ID = m.id()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.UpdatedAt = time.Now()
	items := make([]domain.OrderItem, len(o.Items))
	for i, it := range o.Items {
		it.ID = m.id()
		it.OrderID = o.ID
		it.CreatedAt = time.Now()
		m.orderItems[it.ID] = it
		items[i] = it
	}
	o.Items = items
	stored := o
	stored.Items = nil
	m.orders[o.ID] = stored
	return o, nil
}

func (m *Memory) GetOrder(_ context.Context, id int) (domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.E(domain.KindNotFound, "order not found")
	}
	o.Items = m.itemsOf(id)
	return o, nil
}

func (m *Memory) itemsOf(orderID int) []domain.OrderItem {
	var items []domain.OrderItem
	for _, it := range m.orderItems {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (m *Memory) ListOrders(_ context.Context, f OrderFilter) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var orders []domain.Order
	for _, o := range m.orders {
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		if f.TableNumber != nil && (o.TableNumber == nil || *o.TableNumber != *f.TableNumber) {
			continue
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (m *Memory) UpdateOrderStatus(_ context.Context, id int, status domain.OrderStatus) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.E(domain.KindNotFound, "order not found")
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	m.orders[id] = o
	return o, nil
}

func (m *Memory) DeleteOrder(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return domain.E(domain.KindNotFound, "order not found")
	}
	delete(m.orders, id)
	for itemID, it := range m.orderItems {
		if it.OrderID == id {
			delete(m.orderItems, itemID)
		}
	}
	return nil
}

func (m *Memory) GetOrderItem(_ context.Context, id int) (domain.OrderItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.orderItems[id]
	if !ok {
		return domain.OrderItem{}, domain.E(domain.KindNotFound, "order item not found")
	}
	return it, nil
}

func (m *Memory) ListOrderItems(_ context.Context, orderID int) ([]domain.OrderItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.itemsOf(orderID), nil
}

func (m *Memory) UpdateOrderItemStatus(_ context.Context, id int, status domain.ItemStatus) (domain.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.orderItems[id]
	if !ok {
		return domain.OrderItem{}, domain.E(domain.KindNotFound, "order item not found")
	}
	it.Status = status
	m.orderItems[id] = it
	return it, nil
}

func (m *Memory) OrderItemView(_ context.Context, id int) (domain.ItemView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.orderItems[id]
	if !ok {
		return domain.ItemView{}, domain.E(domain.KindNotFound, "order item not found")
	}
	v := domain.ItemView{
		OrderItemID: it.ID, OrderID: it.OrderID, ItemID: it.ItemID,
		Name: it.Name, ItemType: it.ItemType, Quantity: it.Quantity,
		Price: it.Price, Status: it.Status,
	}
	if catalog, ok := m.items[it.ItemID]; ok {
		v.Description = catalog.Description
		v.ImageURL = catalog.ImageURL
	}
	return v, nil
}

func (m *Memory) CountItemsByType(_ context.Context, orderID int) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var food, drink int
	for _, it := range m.orderItems {
		if it.OrderID != orderID {
			continue
		}
		if it.ItemType == domain.ItemTypeFood {
			food++
		} else {
			drink++
		}
	}
	return food, drink, nil
}

// --- tables ---

// AddTable seeds a table row; tables are fixed furniture, created out of band.
func (m *Memory) AddTable(number int) domain.Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := domain.Table{ID: m.id(), Number: number, Status: domain.TableOpen, LastUpdated: time.Now()}
	m.tables[t.ID] = t
	return t
}

func (m *Memory) ListTables(_ context.Context) ([]domain.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tables := make([]domain.Table, 0, len(m.tables))
	for _, t := range m.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

func (m *Memory) GetTable(_ context.Context, id int) (domain.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	if !ok {
		return domain.Table{}, domain.E(domain.KindNotFound, "table not found")
	}
	return t, nil
}

func (m *Memory) UpdateTableStatus(_ context.Context, id int, status domain.TableStatus, occupants int, waiterID *int) (domain.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return domain.Table{}, domain.E(domain.KindNotFound, "table not found")
	}
	t.Status = status
	t.Occupants = occupants
	if waiterID != nil {
		t.WaiterID = waiterID
	}
	t.LastUpdated = time.Now()
	m.tables[id] = t
	return t, nil
}

func (m *Memory) SetReservation(_ context.Context, id int, res domain.Reservation) (domain.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return domain.Table{}, domain.E(domain.KindNotFound, "table not found")
	}
	t.Status = domain.TableReserved
	t.Reservation = &res
	t.LastUpdated = time.Now()
	m.tables[id] = t
	return t, nil
}

func (m *Memory) BillRequests(_ context.Context) ([]domain.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var tables []domain.Table
	for _, t := range m.tables {
		if t.Status == domain.TableBillRequested {
			tables = append(tables, t)
		}
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].LastUpdated.Before(tables[j].LastUpdated) })
	return tables, nil
}

// --- receipts ---

func (m *Memory) CreateReceipt(_ context.Context, r domain.Receipt) (domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.id()
	if r.PrintedAt.IsZero() {
		r.PrintedAt = time.Now()
	}
	m.receipts[r.ID] = r
	return r, nil
}

// --- sales ---

func (m *Memory) AddToDay(_ context.Context, date string, amount float64) (domain.SalesReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales[date] += amount
	return domain.SalesReport{Date: date, TotalSales: m.sales[date]}, nil
}

func (m *Memory) GetDay(_ context.Context, date string) (domain.SalesReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.SalesReport{Date: date, TotalSales: m.sales[date]}, nil
}

func (m *Memory) SalesBetween(_ context.Context, from, to string) ([]domain.SalesReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reports []domain.SalesReport
	for date, total := range m.sales {
		if date >= from && date <= to {
			reports = append(reports, domain.SalesReport{Date: date, TotalSales: total})
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Date < reports[j].Date })
	return reports, nil
}

// --- sync mappings ---

func (m *Memory) GetMapping(_ context.Context, localID string, t domain.EntityType) (domain.SyncMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mp, ok := m.mappings[string(t)+"/"+localID]
	if !ok {
		return domain.SyncMapping{}, domain.E(domain.KindNotFound, "sync mapping not found")
	}
	return mp, nil
}

func (m *Memory) CreateMapping(_ context.Context, mp domain.SyncMapping) (domain.SyncMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := string(mp.EntityType) + "/" + mp.LocalID
	if _, ok := m.mappings[key]; ok {
		return domain.SyncMapping{}, domain.E(domain.KindConflict, "sync mapping already exists")
	}
	mp.ID = m.id()
	mp.CreatedAt = time.Now()
	m.mappings[key] = mp
	return mp, nil
}
