package service

import (
	"context"
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func initializedOrdersWithBurgerDemand(amounts ...int) []models.Order {
	orders := make([]models.Order, len(amounts))
	for i, amount := range amounts {
		orders[i] = models.Order{
			ID:            int64(i + 1),
			OrderStatusID: models.OrderStatusInitialized,
			Items:         []models.OrderItem{{StockItemID: 11, Amount: amount}},
		}
	}
	return orders
}

func TestItemsPreparationsReportsClampedShortfall(t *testing.T) {
	tests := []struct {
		name         string
		amounts      []int
		stockOnHand  int
		wantRequired int
	}{
		{name: "demand exceeds stock", amounts: []int{9, 6}, stockOnHand: 10, wantRequired: 5},
		{name: "stock covers demand", amounts: []int{3, 5}, stockOnHand: 10, wantRequired: 0},
		{name: "exact cover", amounts: []int{10}, stockOnHand: 10, wantRequired: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestOrderService()

			m.orders.On("GetOrdersByStatus", mock.Anything, models.OrderStatusInitialized).
				Return(initializedOrdersWithBurgerDemand(tt.amounts...), nil)
			m.stocks.On("GetStockItemsByIDs", mock.Anything, []int64{11}).
				Return([]models.StockItem{{ID: 11, Name: "Burger", Amount: tt.stockOnHand}}, nil)

			result, err := svc.ItemsPreparations(context.Background())

			require.NoError(t, err)
			require.Len(t, result, 1)
			assert.Equal(t, "Burger", result[0].StockItemName)
			assert.Equal(t, tt.stockOnHand, result[0].StockItemQuantity)
			assert.Equal(t, tt.wantRequired, result[0].RequiredQuantity)
		})
	}
}

func TestItemsPreparationsEmptyWithoutInitializedOrders(t *testing.T) {
	svc, m := newTestOrderService()

	m.orders.On("GetOrdersByStatus", mock.Anything, models.OrderStatusInitialized).
		Return([]models.Order{}, nil)

	result, err := svc.ItemsPreparations(context.Background())

	require.NoError(t, err)
	assert.Empty(t, result)
	m.stocks.AssertNotCalled(t, "GetStockItemsByIDs", mock.Anything, mock.Anything)
}

func TestItemsPreparationsBreaksDownPerOption(t *testing.T) {
	svc, m := newTestOrderService()

	small := 2
	large := 3
	orders := []models.Order{
		{
			ID:            1,
			OrderStatusID: models.OrderStatusInitialized,
			Items: []models.OrderItem{
				{
					StockItemID: 11, Amount: 2, Count: &small,
					SelectedOptions: []models.SelectedOption{{CustomizationID: "size", OptionID: "s"}},
				},
				{
					StockItemID: 11, Amount: 3, Count: &large,
					SelectedOptions: []models.SelectedOption{{CustomizationID: "size", OptionID: "l"}},
				},
			},
		},
	}
	m.orders.On("GetOrdersByStatus", mock.Anything, models.OrderStatusInitialized).
		Return(orders, nil)
	m.stocks.On("GetStockItemsByIDs", mock.Anything, []int64{11}).
		Return([]models.StockItem{{
			ID: 11, Name: "Burger", Amount: 1,
			Customizations: models.Customizations{{
				ID: "size", Name: "Size",
				Options: []models.CustomizationOption{
					{ID: "s", Name: "Small"},
					{ID: "l", Name: "Large"},
				},
			}},
		}}, nil)

	result, err := svc.ItemsPreparations(context.Background())

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 4, result[0].RequiredQuantity)
	require.Len(t, result[0].OptionBreakdown, 2)
	assert.Equal(t, OptionPreparation{CustomizationName: "Size", OptionName: "Small", Count: 2}, result[0].OptionBreakdown[0])
	assert.Equal(t, OptionPreparation{CustomizationName: "Size", OptionName: "Large", Count: 3}, result[0].OptionBreakdown[1])
}

func TestStatisticsComputesPercentages(t *testing.T) {
	svc, m := newTestOrderService()

	m.orders.On("CountOrdersByStatus", mock.Anything, models.OrderStatusInitialized).Return(3, nil)
	m.orders.On("CountOrders", mock.Anything).Return(8, nil)
	m.customers.On("CountCustomersSince", mock.Anything, mock.Anything).Return(1, nil)
	m.customers.On("CountCustomers", mock.Anything).Return(4, nil)
	m.orders.On("GetOrdersInRange", mock.Anything, mock.Anything, mock.Anything,
		[]int{models.OrderStatusInitialized, models.OrderStatusProcessing, models.OrderStatusDelivered}).
		Return([]models.Order{
			{Items: []models.OrderItem{{StockItemID: 11, Amount: 5}, {StockItemID: 12, Amount: 2}}},
			{Items: []models.OrderItem{{StockItemID: 12, Amount: 9}}},
		}, nil)
	m.stocks.On("GetStockItemByID", mock.Anything, int64(12)).
		Return(&models.StockItem{ID: 12, Name: "Fries"}, nil)

	stats, err := svc.Statistics(context.Background(), 7, 30)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.InitializedOrdersCount)
	assert.InDelta(t, 37.5, stats.InitializedOrdersCountPercent, 0.001)
	assert.Equal(t, "Fries", stats.MostSoldStockItem)
	assert.Equal(t, 1, stats.NewlyAddedUsersCount)
	assert.InDelta(t, 25.0, stats.NewlyAddedUsersCountPercent, 0.001)
}

func TestStatisticsWithNoOrders(t *testing.T) {
	svc, m := newTestOrderService()

	m.orders.On("CountOrdersByStatus", mock.Anything, models.OrderStatusInitialized).Return(0, nil)
	m.orders.On("CountOrders", mock.Anything).Return(0, nil)
	m.customers.On("CountCustomersSince", mock.Anything, mock.Anything).Return(0, nil)
	m.customers.On("CountCustomers", mock.Anything).Return(0, nil)
	m.orders.On("GetOrdersInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Order{}, nil)

	stats, err := svc.Statistics(context.Background(), 7, 7)

	require.NoError(t, err)
	assert.Zero(t, stats.InitializedOrdersCountPercent)
	assert.Zero(t, stats.NewlyAddedUsersCountPercent)
	assert.Empty(t, stats.MostSoldStockItem)
	m.stocks.AssertNotCalled(t, "GetStockItemByID", mock.Anything, mock.Anything)
}
