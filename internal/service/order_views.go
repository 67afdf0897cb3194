package service

import (
	"context"
	"strconv"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// PopulatedOption is a selected customization option with names
// resolved against the stock item's customization tree
type PopulatedOption struct {
	CustomizationID   string  `json:"stockItemCustomizationId"`
	CustomizationName string  `json:"stockItemCustomizationName"`
	OptionID          string  `json:"stockItemCustomizationSelectedOptionId"`
	OptionName        string  `json:"stockItemCustomizationSelectedOptionName"`
	AdditionalPrice   float64 `json:"stockItemCustomizationSelectedOptionAdditionalPrice"`
}

// PopulatedOrderItem is an order item with stock item details resolved
type PopulatedOrderItem struct {
	StockItemID     int64             `json:"stockItemId"`
	StockItemName   string            `json:"stockItemName"`
	StockItemPrice  float64           `json:"stockItemPrice"`
	Amount          int               `json:"amount"`
	Count           *int              `json:"count,omitempty"`
	Price           float64           `json:"price"`
	SelectedOptions []PopulatedOption `json:"stockItemCustomizationsSelectedOptions"`
}

// OrderViewModel is the client-facing order representation
type OrderViewModel struct {
	*models.Order
	Customer    *models.Customer         `json:"customer,omitempty"`
	OrderStatus models.OrderStatusDetail `json:"orderStatus"`
	ViewItems   []PopulatedOrderItem     `json:"items"`
}

// OrderListFilters carries the optional list filters with their match modes
type OrderListFilters struct {
	CustomerName      string
	CustomerNameMode  string
	CustomerPhone     string
	CustomerPhoneMode string
	TotalPrice        *float64
	TotalPriceMode    string
	Date              string
	DateMode          string
	StatusChangeDate  string
	StatusChangeMode  string
	OrderStatusID     *int
	OrderStatusIDMode string
	PageNumber        int
	PageSize          int
}

// OrderListResult is the paginated list response
type OrderListResult struct {
	TotalRecords                int              `json:"totalRecords"`
	InitializedStateOrdersCount int              `json:"initializedStateOrdersCount"`
	Orders                      []OrderViewModel `json:"orders"`
}

// ListOrders retrieves, populates, filters and paginates orders
func (s *OrderService) ListOrders(ctx context.Context, filters OrderListFilters) (*OrderListResult, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.orders.GetOrders(ctx)
	if err != nil {
		return nil, err
	}

	populated := make([]OrderViewModel, 0, len(orders))
	for i := range orders {
		populated = append(populated, *s.populateOrder(ctx, &orders[i]))
	}

	filtered := make([]OrderViewModel, 0, len(populated))
	for _, vm := range populated {
		if !orderMatches(vm, filters) {
			continue
		}
		filtered = append(filtered, vm)
	}

	initializedCount := 0
	for _, vm := range filtered {
		if vm.OrderStatusID == models.OrderStatusInitialized {
			initializedCount++
		}
	}

	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 5
	}
	start := filters.PageNumber * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return &OrderListResult{
		TotalRecords:                len(filtered),
		InitializedStateOrdersCount: initializedCount,
		Orders:                      filtered[start:end],
	}, nil
}

func orderMatches(vm OrderViewModel, f OrderListFilters) bool {
	if f.CustomerName != "" {
		name := ""
		if vm.Customer != nil {
			name = vm.Customer.Name
		}
		if !matchString(f.CustomerNameMode, name, f.CustomerName) {
			return false
		}
	}
	if f.CustomerPhone != "" {
		phone := ""
		if vm.Customer != nil {
			phone = vm.Customer.Phone
		}
		if !matchString(f.CustomerPhoneMode, phone, f.CustomerPhone) {
			return false
		}
	}
	if f.TotalPrice != nil && !matchNumber(f.TotalPriceMode, vm.TotalPrice, *f.TotalPrice) {
		return false
	}
	if f.Date != "" && !matchDate(f.DateMode, vm.Date, f.Date) {
		return false
	}
	if f.StatusChangeDate != "" {
		if vm.StatusChangeDate == nil {
			return false
		}
		if !matchDate(f.StatusChangeMode, *vm.StatusChangeDate, f.StatusChangeDate) {
			return false
		}
	}
	if f.OrderStatusID != nil && !matchNumber(f.OrderStatusIDMode, float64(vm.OrderStatusID), float64(*f.OrderStatusID)) {
		return false
	}
	return true
}

// populateOrder resolves customer, status details and item names for
// client display. Lenient populate policy: a dangling stock item or
// customization reference is skipped and logged, never fatal.
func (s *OrderService) populateOrder(ctx context.Context, order *models.Order) *OrderViewModel {
	vm := &OrderViewModel{
		Order:       order,
		OrderStatus: models.OrderStatusDetails[order.OrderStatusID],
		ViewItems:   make([]PopulatedOrderItem, 0, len(order.Items)),
	}

	customer, err := s.customers.GetCustomerByID(ctx, order.CustomerID)
	if err != nil {
		s.logger.Warn("Failed to resolve order customer",
			zap.Int64("order_id", order.ID),
			zap.Int64("customer_id", order.CustomerID),
			zap.Error(err))
	} else {
		vm.Customer = customer
	}

	for _, item := range order.Items {
		populated := PopulatedOrderItem{
			StockItemID:     item.StockItemID,
			StockItemPrice:  item.StockItemPrice,
			Amount:          item.Amount,
			Count:           item.Count,
			Price:           item.Price,
			SelectedOptions: make([]PopulatedOption, 0, len(item.SelectedOptions)),
		}

		stockItem, err := s.stocks.GetStockItemByID(ctx, item.StockItemID)
		if err != nil {
			s.logger.Warn("Skipping order item with dangling stock item reference",
				zap.Int64("order_id", order.ID),
				zap.Int64("stock_item_id", item.StockItemID),
				zap.Error(err))
			populated.StockItemName = "unknown (" + strconv.FormatInt(item.StockItemID, 10) + ")"
			vm.ViewItems = append(vm.ViewItems, populated)
			continue
		}
		populated.StockItemName = stockItem.Name

		for _, selected := range item.SelectedOptions {
			customization, option, ok := resolveOption(stockItem.Customizations, selected)
			if !ok {
				s.logger.Warn("Skipping dangling customization reference",
					zap.Int64("order_id", order.ID),
					zap.Int64("stock_item_id", item.StockItemID),
					zap.String("customization_id", selected.CustomizationID),
					zap.String("option_id", selected.OptionID))
				continue
			}
			populated.SelectedOptions = append(populated.SelectedOptions, PopulatedOption{
				CustomizationID:   customization.ID,
				CustomizationName: customization.Name,
				OptionID:          option.ID,
				OptionName:        option.Name,
				AdditionalPrice:   selected.AdditionalPrice,
			})
		}

		vm.ViewItems = append(vm.ViewItems, populated)
	}

	return vm
}

func resolveOption(customizations models.Customizations, selected models.SelectedOption) (*models.Customization, *models.CustomizationOption, bool) {
	for i := range customizations {
		if customizations[i].ID != selected.CustomizationID {
			continue
		}
		for j := range customizations[i].Options {
			if customizations[i].Options[j].ID == selected.OptionID {
				return &customizations[i], &customizations[i].Options[j], true
			}
		}
	}
	return nil, nil, false
}
