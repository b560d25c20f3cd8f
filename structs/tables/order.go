package tables

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusReady      OrderStatus = "READY"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ActiveOrderStatuses occupy a table and form the kitchen work queue.
var ActiveOrderStatuses = []OrderStatus{OrderStatusNew, OrderStatusInProgress}

// CompletedOrderStatuses are the orders that left the kitchen.
var CompletedOrderStatuses = []OrderStatus{OrderStatusReady, OrderStatusCompleted}

// ParseOrderStatus accepts the stored literal names, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) IsActive() bool {
	return s == OrderStatusNew || s == OrderStatusInProgress
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID           int64           `bun:"id,pk,autoincrement" json:"id"`
	OrderNumber  string          `bun:"order_number,notnull,unique" json:"order_number"`
	TableID      *int64          `bun:"table_id" json:"table_id,omitempty"`
	CustomerName string          `bun:"customer_name,nullzero" json:"customer_name,omitempty"`
	WaiterID     *int64          `bun:"waiter_id" json:"waiter_id,omitempty"`
	Status       OrderStatus     `bun:"status,notnull" json:"status"`
	TotalAmount  decimal.Decimal `bun:"total_amount,type:numeric(10,2),notnull" json:"total_amount"`
	Notes        string          `bun:"notes,nullzero" json:"notes,omitempty"`
	CreatedAt    time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	// Items are owned by the order and persisted alongside it.
	Items []*OrderItem `bun:"-" json:"items"`
}

// RecalculateTotal sets TotalAmount to the sum of the item totals.
func (o *Order) RecalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.TotalAmount = total
	return total
}

// TotalItems is the number of units across all lines.
func (o *Order) TotalItems() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (o *Order) AddItem(item *OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.RecalculateTotal()
}

// RemoveItem drops the line with the given id and reports whether it existed.
func (o *Order) RemoveItem(itemID int64) bool {
	for i, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.RecalculateTotal()
			return true
		}
	}
	return false
}

func (o *Order) IsActive() bool {
	return o.Status.IsActive()
}

type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID                  int64           `bun:"id,pk,autoincrement" json:"id"`
	OrderID             int64           `bun:"order_id,notnull" json:"order_id"`
	MenuItemID          int64           `bun:"menu_item_id,notnull" json:"menu_item_id"`
	MenuItemName        string          `bun:"menu_item_name,scanonly" json:"menu_item_name,omitempty"`
	Quantity            int             `bun:"quantity,notnull" json:"quantity"`
	UnitPrice           decimal.Decimal `bun:"unit_price,type:numeric(10,2),notnull" json:"unit_price"`
	TotalPrice          decimal.Decimal `bun:"total_price,type:numeric(10,2),notnull" json:"total_price"`
	SpecialInstructions string          `bun:"special_instructions,nullzero" json:"special_instructions,omitempty"`
	CreatedAt           time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// NewOrderItem captures the unit price at order time.
func NewOrderItem(menuItemID int64, quantity int, unitPrice decimal.Decimal) *OrderItem {
	item := &OrderItem{
		MenuItemID: menuItemID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	}
	item.RecalculateTotal()
	return item
}

func (oi *OrderItem) SetQuantity(quantity int) {
	oi.Quantity = quantity
	oi.RecalculateTotal()
}

func (oi *OrderItem) SetUnitPrice(price decimal.Decimal) {
	oi.UnitPrice = price
	oi.RecalculateTotal()
}

func (oi *OrderItem) RecalculateTotal() {
	oi.TotalPrice = oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// OrderDetails is the read-side view of an order, with the waiter and table
// resolved at query time.
type OrderDetails struct {
	Order `bun:",extend"`

	WaiterName  string `bun:"waiter_name,scanonly" json:"waiter_name,omitempty"`
	TableNumber string `bun:"table_number,scanonly" json:"table_number,omitempty"`
}

// OrderStatusLog records who moved an order to which status.
type OrderStatusLog struct {
	bun.BaseModel `bun:"table:order_status_log,alias:osl"`

	ID        int64       `bun:"id,pk,autoincrement" json:"id"`
	OrderID   int64       `bun:"order_id,notnull" json:"order_id"`
	OldStatus OrderStatus `bun:"old_status,nullzero" json:"old_status,omitempty"`
	NewStatus OrderStatus `bun:"new_status,notnull" json:"new_status"`
	ChangedBy *int64      `bun:"changed_by" json:"changed_by,omitempty"`
	ChangedAt time.Time   `bun:"changed_at,nullzero,notnull,default:current_timestamp" json:"changed_at"`
	Note      string      `bun:"note,nullzero" json:"note,omitempty"`
}
