package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// allowedTransitions is the order status state machine: INITIALIZED ->
// PROCESSING -> DELIVERED, with CANCELED reachable from INITIALIZED or
// PROCESSING. DELIVERED and CANCELED are terminal.
var allowedTransitions = map[int][]int{
	models.OrderStatusInitialized: {models.OrderStatusProcessing, models.OrderStatusCanceled},
	models.OrderStatusProcessing:  {models.OrderStatusDelivered, models.OrderStatusCanceled},
}

func transitionAllowed(from, to int) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// OrderService enforces order status transitions and their stock and
// notification side effects
type OrderService struct {
	orders    OrderStore
	stocks    StockStore
	customers CustomerStore
	ledger    *StockLedger
	notifier  Notifier
	publisher Publisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders OrderStore,
	stocks StockStore,
	customers CustomerStore,
	ledger *StockLedger,
	notifier Notifier,
	publisher Publisher,
) *OrderService {
	return &OrderService{
		orders:    orders,
		stocks:    stocks,
		customers: customers,
		ledger:    ledger,
		notifier:  notifier,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// OrderItemRequest represents one item in an order mutation request
type OrderItemRequest struct {
	StockItemID     int64                   `json:"stockItemId" binding:"required"`
	StockItemPrice  float64                 `json:"stockItemPrice"`
	Amount          int                     `json:"amount" binding:"required,min=1"`
	Count           *int                    `json:"count,omitempty"`
	Price           float64                 `json:"price"`
	SelectedOptions []models.SelectedOption `json:"stockItemCustomizationsSelectedOptions"`
}

// OrderRequest represents an order create/update request
type OrderRequest struct {
	CustomerID    int64              `json:"customerId" binding:"required"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1"`
	TotalPrice    float64            `json:"totalPrice" binding:"required"`
	OrderStatusID int                `json:"orderStatusId" binding:"min=0,max=4"`
}

// CreateOrder creates a new order, starting at INITIALIZED unless an
// explicit non-zero status is supplied
func (s *OrderService) CreateOrder(ctx context.Context, req *OrderRequest, byUserID int64) (*OrderViewModel, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if err := s.validateItems(ctx, req.Items); err != nil {
		return nil, err
	}

	statusID := req.OrderStatusID
	if statusID == 0 {
		statusID = models.OrderStatusInitialized
	}

	order := &models.Order{
		CustomerID:    req.CustomerID,
		TotalPrice:    req.TotalPrice,
		OrderStatusID: statusID,
		Items:         itemsFromRequest(req.Items),
		CreatedBy:     &byUserID,
	}

	// An order born directly in PROCESSING still commits its stock
	// exactly once.
	if statusID == models.OrderStatusProcessing {
		if _, err := s.ledger.Apply(ctx, decrements(order.Items)); err != nil {
			var insufficient *models.InsufficientStockError
			if errors.As(err, &insufficient) {
				util.InsufficientStockTotal.Inc()
			}
			return nil, err
		}
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID), zap.Int("status", order.OrderStatusID))

	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	if statusID == models.OrderStatusInitialized {
		s.emitInitializedDelta(1)
	}
	s.notifier.NotifyAll(models.NewActionNotification(models.ActionRefreshHomePage, nil))

	return s.populateOrder(ctx, order), nil
}

// UpdateOrder applies a status transition or field edit to an existing
// order, with stock side effects per the state machine
func (s *OrderService) UpdateOrder(ctx context.Context, orderID int64, req *OrderRequest, byUserID int64) (*OrderViewModel, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder")
	defer span.End()

	old, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if models.IsTerminalStatus(old.OrderStatusID) {
		util.OrderTransitionsRejected.WithLabelValues("terminal").Inc()
		statusName := models.OrderStatusDetails[old.OrderStatusID].Name
		return nil, fmt.Errorf("cannot edit %s order: %w", statusName, models.ErrConflict)
	}

	if err := s.validateItems(ctx, req.Items); err != nil {
		return nil, err
	}

	newStatus := req.OrderStatusID
	if newStatus == 0 {
		newStatus = old.OrderStatusID
	}

	statusChanged := newStatus != old.OrderStatusID
	switch {
	case statusChanged:
		if !transitionAllowed(old.OrderStatusID, newStatus) {
			util.OrderTransitionsRejected.WithLabelValues("invalid_transition").Inc()
			return nil, fmt.Errorf("cannot transition order from %s to %s: %w",
				models.OrderStatusDetails[old.OrderStatusID].Name,
				models.OrderStatusDetails[newStatus].Name,
				models.ErrConflict)
		}

		switch newStatus {
		case models.OrderStatusProcessing:
			// Fresh sufficiency check and all-or-nothing decrement of
			// the stored items, not the request snapshot.
			if _, err := s.ledger.Apply(ctx, decrements(old.Items)); err != nil {
				var insufficient *models.InsufficientStockError
				if errors.As(err, &insufficient) {
					util.InsufficientStockTotal.Inc()
					util.OrderTransitionsRejected.WithLabelValues("insufficient_stock").Inc()
				}
				return nil, err
			}
			s.emitInitializedDelta(-1)

		case models.OrderStatusDelivered:
			// Stock was committed when the order entered PROCESSING.

		case models.OrderStatusCanceled:
			if old.OrderStatusID == models.OrderStatusProcessing {
				if _, err := s.ledger.Apply(ctx, increments(old.Items)); err != nil {
					return nil, fmt.Errorf("failed to return stock: %w", err)
				}
			} else {
				s.emitInitializedDelta(-1)
			}
		}

	case newStatus == models.OrderStatusProcessing:
		// Re-asserting PROCESSING reverts the order to INITIALIZED and
		// returns its stock. Odd, but kept deliberately; clients rely
		// on it as the "undo" path.
		if _, err := s.ledger.Apply(ctx, increments(old.Items)); err != nil {
			return nil, fmt.Errorf("failed to return stock: %w", err)
		}
		newStatus = models.OrderStatusInitialized
		statusChanged = true
		s.emitInitializedDelta(1)
	}

	order := &models.Order{
		ID:               orderID,
		CustomerID:       req.CustomerID,
		TotalPrice:       req.TotalPrice,
		OrderStatusID:    newStatus,
		StatusChangeDate: old.StatusChangeDate,
		Items:            itemsFromRequest(req.Items),
		UpdatedBy:        &byUserID,
	}
	if statusChanged {
		now := time.Now()
		order.StatusChangeDate = &now
	}

	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if statusChanged {
		util.OrderTransitionsTotal.WithLabelValues(models.OrderStatusDetails[newStatus].Name).Inc()
		s.logger.Info("Order status changed",
			zap.Int64("order_id", orderID),
			zap.Int("from", old.OrderStatusID),
			zap.Int("to", newStatus))

		if err := s.publisher.PublishOrderStatusChanged(ctx, orderID, old.OrderStatusID, newStatus); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	s.notifier.NotifyAll(models.NewActionNotification(models.ActionRefreshHomePage, nil))

	return s.populateOrder(ctx, order), nil
}

// GetOrder retrieves one order as a populated view model
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*OrderViewModel, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.populateOrder(ctx, order), nil
}

// DeleteOrder removes an order outright. This bypasses the state
// machine and performs no stock compensation; exposed for parity with
// the admin UI.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.orders.DeleteOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.Warn("Order hard-deleted, stock not compensated",
		zap.Int64("order_id", orderID), zap.Int("status", order.OrderStatusID))
	s.notifier.NotifyAll(models.NewActionNotification(models.ActionRefreshHomePage, nil))
	return order, nil
}

func (s *OrderService) emitInitializedDelta(delta int) {
	s.notifier.NotifyAll(models.NewActionNotification(models.ActionInitializedOrdersDelta, map[string]interface{}{
		"delta": delta,
	}))
}

// validateItems checks every referenced stock item exists
func (s *OrderService) validateItems(ctx context.Context, items []OrderItemRequest) error {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.StockItemID
	}

	found, err := s.stocks.GetStockItemsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	known := make(map[int64]bool, len(found))
	for _, item := range found {
		known[item.ID] = true
	}
	for _, item := range items {
		if !known[item.StockItemID] {
			return &models.ValidationError{
				Field:  "items",
				Reason: fmt.Sprintf("stock item %d does not exist", item.StockItemID),
			}
		}
	}
	return nil
}

func itemsFromRequest(items []OrderItemRequest) []models.OrderItem {
	result := make([]models.OrderItem, len(items))
	for i, item := range items {
		result[i] = models.OrderItem{
			StockItemID:     item.StockItemID,
			StockItemPrice:  item.StockItemPrice,
			Amount:          item.Amount,
			Count:           item.Count,
			Price:           item.Price,
			SelectedOptions: item.SelectedOptions,
		}
	}
	return result
}

func decrements(items []models.OrderItem) []store.StockChange {
	changes := make([]store.StockChange, len(items))
	for i, item := range items {
		changes[i] = store.StockChange{StockItemID: item.StockItemID, Delta: -item.Amount}
	}
	return changes
}

func increments(items []models.OrderItem) []store.StockChange {
	changes := make([]store.StockChange, len(items))
	for i, item := range items {
		changes[i] = store.StockChange{StockItemID: item.StockItemID, Delta: item.Amount}
	}
	return changes
}
