package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
)

// StockStore is the persistence surface the stock logic depends on
type StockStore interface {
	GetStockItems(ctx context.Context, searchTerm string) ([]models.StockItem, error)
	GetStockItemByID(ctx context.Context, id int64) (*models.StockItem, error)
	GetStockItemsByIDs(ctx context.Context, ids []int64) ([]models.StockItem, error)
	CreateStockItem(ctx context.Context, item *models.StockItem) error
	UpdateStockItem(ctx context.Context, item *models.StockItem) error
	SoftDeleteStockItem(ctx context.Context, id int64, byUserID *int64) (*models.StockItem, error)
	ApplyStockChangesTx(ctx context.Context, changes []store.StockChange) ([]store.StockLevel, error)
}

// OrderStore is the persistence surface the order logic depends on
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetOrdersByStatus(ctx context.Context, statusID int) ([]models.Order, error)
	GetOrdersInRange(ctx context.Context, start, end time.Time, statusIDs []int) ([]models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, id int64) (*models.Order, error)
	CountOrders(ctx context.Context) (int, error)
	CountOrdersByStatus(ctx context.Context, statusID int) (int, error)
}

// CustomerStore is the persistence surface the customer logic depends on
type CustomerStore interface {
	SearchCustomers(ctx context.Context, searchTerm string) ([]models.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	SoftDeleteCustomer(ctx context.Context, id int64, byUserID *int64) (*models.Customer, error)
	CountCustomers(ctx context.Context) (int, error)
	CountCustomersSince(ctx context.Context, since time.Time) (int, error)
}

// UserStore is the persistence surface the user logic depends on
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmailOrName(ctx context.Context, emailOrName string) (*models.User, error)
	GetUsers(ctx context.Context, roles []string) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

// Notifier enqueues fire-and-forget notifications for live sessions
type Notifier interface {
	NotifySession(sessionID string, payload models.Notification)
	NotifyUser(userID int64, payload models.Notification)
	NotifyAll(payload models.Notification)
}

// Publisher publishes domain events to the audit stream
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderStatusChanged(ctx context.Context, orderID int64, fromStatus, toStatus int) error
	PublishStockAdjusted(ctx context.Context, stockItemID int64, delta, newAmount int) error
}

// StockCache mirrors committed stock levels for cheap reads
type StockCache interface {
	SetStockAmount(ctx context.Context, stockItemID int64, amount int) error
	CacheStockList(ctx context.Context, items []models.StockItem) error
	GetStockList(ctx context.Context) ([]models.StockItem, bool, error)
	InvalidateStockList(ctx context.Context) error
}
