package mocks

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"

	"github.com/stretchr/testify/mock"
)

type MockStockStore struct {
	mock.Mock
}

func (m *MockStockStore) GetStockItems(ctx context.Context, searchTerm string) ([]models.StockItem, error) {
	args := m.Called(ctx, searchTerm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StockItem), args.Error(1)
}

func (m *MockStockStore) GetStockItemByID(ctx context.Context, id int64) (*models.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockStore) GetStockItemsByIDs(ctx context.Context, ids []int64) ([]models.StockItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StockItem), args.Error(1)
}

func (m *MockStockStore) CreateStockItem(ctx context.Context, item *models.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockStore) UpdateStockItem(ctx context.Context, item *models.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockStore) SoftDeleteStockItem(ctx context.Context, id int64, byUserID *int64) (*models.StockItem, error) {
	args := m.Called(ctx, id, byUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockStore) ApplyStockChangesTx(ctx context.Context, changes []store.StockChange) ([]store.StockLevel, error) {
	args := m.Called(ctx, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.StockLevel), args.Error(1)
}

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderStore) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) GetOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStore) GetOrdersByStatus(ctx context.Context, statusID int) ([]models.Order, error) {
	args := m.Called(ctx, statusID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStore) GetOrdersInRange(ctx context.Context, start, end time.Time, statusIDs []int) ([]models.Order, error) {
	args := m.Called(ctx, start, end, statusIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStore) UpdateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderStore) DeleteOrder(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) CountOrders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderStore) CountOrdersByStatus(ctx context.Context, statusID int) (int, error) {
	args := m.Called(ctx, statusID)
	return args.Int(0), args.Error(1)
}

type MockCustomerStore struct {
	mock.Mock
}

func (m *MockCustomerStore) SearchCustomers(ctx context.Context, searchTerm string) ([]models.Customer, error) {
	args := m.Called(ctx, searchTerm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerStore) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerStore) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerStore) SoftDeleteCustomer(ctx context.Context, id int64, byUserID *int64) (*models.Customer, error) {
	args := m.Called(ctx, id, byUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerStore) CountCustomers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCustomerStore) CountCustomersSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmailOrName(ctx context.Context, emailOrName string) (*models.User, error) {
	args := m.Called(ctx, emailOrName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUsers(ctx context.Context, roles []string) ([]models.User, error) {
	args := m.Called(ctx, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySession(sessionID string, payload models.Notification) {
	m.Called(sessionID, payload)
}

func (m *MockNotifier) NotifyUser(userID int64, payload models.Notification) {
	m.Called(userID, payload)
}

func (m *MockNotifier) NotifyAll(payload models.Notification) {
	m.Called(payload)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPublisher) PublishOrderStatusChanged(ctx context.Context, orderID int64, fromStatus, toStatus int) error {
	args := m.Called(ctx, orderID, fromStatus, toStatus)
	return args.Error(0)
}

func (m *MockPublisher) PublishStockAdjusted(ctx context.Context, stockItemID int64, delta, newAmount int) error {
	args := m.Called(ctx, stockItemID, delta, newAmount)
	return args.Error(0)
}

type MockStockCache struct {
	mock.Mock
}

func (m *MockStockCache) SetStockAmount(ctx context.Context, stockItemID int64, amount int) error {
	args := m.Called(ctx, stockItemID, amount)
	return args.Error(0)
}

func (m *MockStockCache) CacheStockList(ctx context.Context, items []models.StockItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockStockCache) GetStockList(ctx context.Context) ([]models.StockItem, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.StockItem), args.Bool(1), args.Error(2)
}

func (m *MockStockCache) InvalidateStockList(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSessionDirectory struct {
	mock.Mock
}

func (m *MockSessionDirectory) GetSessionsByUserID(ctx context.Context, userID int64) ([]models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Session), args.Error(1)
}

type MockConnectionController struct {
	mock.Mock
}

func (m *MockConnectionController) CloseSession(ctx context.Context, sessionID string) {
	m.Called(ctx, sessionID)
}

func (m *MockConnectionController) CloseUserSessions(ctx context.Context, userID int64) {
	m.Called(ctx, userID)
}
