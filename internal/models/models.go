package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Order statuses
const (
	OrderStatusInitialized = 1
	OrderStatusProcessing  = 2
	OrderStatusDelivered   = 3
	OrderStatusCanceled    = 4
)

// OrderStatusDetail describes an order status for client display
type OrderStatusDetail struct {
	ID       int    `json:"_id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

// OrderStatusDetails maps status ids to their display details
var OrderStatusDetails = map[int]OrderStatusDetail{
	OrderStatusInitialized: {ID: 1, Name: "INITIALIZED", Label: "Initialized", Severity: "info"},
	OrderStatusProcessing:  {ID: 2, Name: "PROCESSING", Label: "Processing", Severity: "warning"},
	OrderStatusDelivered:   {ID: 3, Name: "DELIVERED", Label: "Delivered", Severity: "success"},
	OrderStatusCanceled:    {ID: 4, Name: "CANCELED", Label: "Canceled", Severity: "danger"},
}

// IsTerminalStatus reports whether no further transitions are allowed
func IsTerminalStatus(statusID int) bool {
	return statusID == OrderStatusDelivered || statusID == OrderStatusCanceled
}

// CustomizationOption is a selectable value on a customization axis
type CustomizationOption struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	AdditionalPrice float64 `json:"additionalPrice"`
}

// Customization is a named variant axis on a stock item (e.g. "Size")
type Customization struct {
	ID      string                `json:"id"`
	Name    string                `json:"name"`
	Options []CustomizationOption `json:"options"`
}

// Customizations is stored as a JSONB column
type Customizations []Customization

func (c Customizations) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

func (c *Customizations) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = nil
		return nil
	}
	return fmt.Errorf("unsupported customizations scan type %T", src)
}

// StockItem represents an item on hand. Amount never goes negative
// after a committed mutation.
type StockItem struct {
	ID             int64          `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Amount         int            `db:"amount" json:"amount"`
	Price          float64        `db:"price" json:"price"`
	Customizations Customizations `db:"customizations" json:"customizations"`
	IsDeleted      bool           `db:"is_deleted" json:"isDeleted"`
	CreatedBy      *int64         `db:"created_by" json:"createdByUserId,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"creationDate"`
	UpdatedBy      *int64         `db:"updated_by" json:"updatedByUserId,omitempty"`
	UpdatedAt      *time.Time     `db:"updated_at" json:"updatedDate,omitempty"`
	DeletedBy      *int64         `db:"deleted_by" json:"deletedByUserId,omitempty"`
	DeletedAt      *time.Time     `db:"deleted_at" json:"deletionDate,omitempty"`
}

// SelectedOption snapshots a chosen customization option at order time
type SelectedOption struct {
	CustomizationID string  `json:"stockItemCustomizationId"`
	OptionID        string  `json:"stockItemCustomizationSelectedOptionId"`
	AdditionalPrice float64 `json:"stockItemCustomizationSelectedOptionAdditionalPrice"`
}

// SelectedOptions is stored as a JSONB column
type SelectedOptions []SelectedOption

func (o SelectedOptions) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	return json.Marshal(o)
}

func (o *SelectedOptions) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	case nil:
		*o = nil
		return nil
	}
	return fmt.Errorf("unsupported selected options scan type %T", src)
}

// OrderItem captures a stock item inside an order. Price fields are
// snapshots taken at order time, never re-read from current stock.
type OrderItem struct {
	ID              int64           `db:"id" json:"id"`
	OrderID         int64           `db:"order_id" json:"-"`
	StockItemID     int64           `db:"stock_item_id" json:"stockItemId"`
	StockItemPrice  float64         `db:"stock_item_price" json:"stockItemPrice"`
	Amount          int             `db:"amount" json:"amount"`
	Count           *int            `db:"count" json:"count,omitempty"`
	Price           float64         `db:"price" json:"price"`
	SelectedOptions SelectedOptions `db:"selected_options" json:"stockItemCustomizationsSelectedOptions"`
}

// Order represents a customer order
type Order struct {
	ID               int64       `db:"id" json:"id"`
	CustomerID       int64       `db:"customer_id" json:"customerId"`
	Date             time.Time   `db:"date" json:"date"`
	StatusChangeDate *time.Time  `db:"status_change_date" json:"statusChangeDate"`
	TotalPrice       float64     `db:"total_price" json:"totalPrice"`
	OrderStatusID    int         `db:"order_status_id" json:"orderStatusId"`
	Items            []OrderItem `json:"items"`
	CreatedBy        *int64      `db:"created_by" json:"createdByUserId,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"creationDate"`
	UpdatedBy        *int64      `db:"updated_by" json:"updatedByUserId,omitempty"`
	UpdatedAt        *time.Time  `db:"updated_at" json:"updatedDate,omitempty"`
}

// Customer represents a shop customer
type Customer struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Phone     string     `db:"phone" json:"phone"`
	Address   string     `db:"address" json:"address"`
	Notes     string     `db:"notes" json:"notes,omitempty"`
	Tombstone string     `db:"tombstone" json:"tombstone,omitempty"`
	IsDeleted bool       `db:"is_deleted" json:"isDeleted"`
	CreatedBy *int64     `db:"created_by" json:"createdByUserId,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"creationDate"`
	UpdatedBy *int64     `db:"updated_by" json:"updatedByUserId,omitempty"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedDate,omitempty"`
}

// User roles
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleMaster = "master"
)

// User represents a staff account
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"creationDate"`
}

// Session is the durable record correlating a live connection to a
// user across reconnects. Connected flips on register/close; the row
// itself is retained after disconnect.
type Session struct {
	SessionID string         `db:"session_id" json:"sessionId"`
	UserID    int64          `db:"user_id" json:"userId"`
	Connected bool           `db:"connected" json:"connected"`
	Messages  pq.StringArray `db:"messages" json:"messages"`
	CreatedAt time.Time      `db:"created_at" json:"creationDate"`
	UpdatedAt *time.Time     `db:"updated_at" json:"updatedDate,omitempty"`
}
