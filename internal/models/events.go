package models

import "time"

// Notification action names dispatched by connected clients
const (
	ActionStockItemChanged       = "stockItemChanged"
	ActionLowStockWarning        = "lowStockWarning"
	ActionInitializedOrdersDelta = "initializedOrdersCountChanged"
	ActionRefreshHomePage        = "refreshHomePage"
)

// Notification is the envelope pushed over the live channel. The
// broadcaster is a pure transport; subscribers dispatch on ActionName.
type Notification struct {
	Type          string      `json:"type"`
	Message       string      `json:"message,omitempty"`
	ActionName    string      `json:"actionName,omitempty"`
	ActionPayload interface{} `json:"actionPayload,omitempty"`
}

// NewActionNotification builds a notification carrying a client action
func NewActionNotification(actionName string, payload interface{}) Notification {
	return Notification{
		Type:          "notification",
		ActionName:    actionName,
		ActionPayload: payload,
	}
}

// Event types published to the audit stream
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeStockAdjusted      = "STOCK_ADJUSTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an order is created
type OrderCreatedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	CustomerID    int64           `json:"customer_id"`
	TotalPrice    float64         `json:"total_price"`
	OrderStatusID int             `json:"order_status_id"`
	Items         []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published on every committed status transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    int64 `json:"order_id"`
	FromStatus int   `json:"from_status"`
	ToStatus   int   `json:"to_status"`
}

// StockAdjustedEvent published after every committed stock mutation
type StockAdjustedEvent struct {
	BaseEvent
	StockItemID int64 `json:"stock_item_id"`
	Delta       int   `json:"delta"`
	NewAmount   int   `json:"new_amount"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	StockItemID int64   `json:"stock_item_id"`
	Amount      int     `json:"amount"`
	Price       float64 `json:"price"`
}
