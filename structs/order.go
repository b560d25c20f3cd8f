package structs

// OrderItemRequest is one order line. When editing an order, ID names an
// existing line whose captured unit price is kept.
type OrderItemRequest struct {
	ID                  *int64 `json:"id" validate:"omitempty,gt=0"`
	MenuItemID          int64  `json:"menu_item_id" validate:"required,gt=0"`
	Quantity            int    `json:"quantity" validate:"gt=0"`
	SpecialInstructions string `json:"special_instructions" validate:"max=500"`
}

// OrderRequest creates or replaces an order. When omitted, WaiterID
// defaults to the caller on create and to the current waiter on edit.
type OrderRequest struct {
	TableID      *int64             `json:"table_id" validate:"omitempty,gt=0"`
	CustomerName string             `json:"customer_name" validate:"max=100"`
	WaiterID     *int64             `json:"waiter_id" validate:"omitempty,gt=0"`
	Notes        string             `json:"notes" validate:"max=1000"`
	Items        []OrderItemRequest `json:"items" validate:"dive"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
