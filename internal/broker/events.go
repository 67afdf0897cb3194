package broker

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/google/uuid"
)

// EventPublisher publishes domain events to the audit stream. Callers
// treat failures as non-fatal and log them.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	items := make([]models.OrderItemData, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, models.OrderItemData{
			StockItemID: item.StockItemID,
			Amount:      item.Amount,
			Price:       item.Price,
		})
	}

	event := models.OrderCreatedEvent{
		BaseEvent:     newBaseEvent(models.EventTypeOrderCreated),
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		TotalPrice:    order.TotalPrice,
		OrderStatusID: order.OrderStatusID,
		Items:         items,
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", order.ID), event)
}

// PublishOrderStatusChanged publishes an OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, orderID int64, fromStatus, toStatus int) error {
	event := models.OrderStatusChangedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:    orderID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", orderID), event)
}

// PublishStockAdjusted publishes a StockAdjusted event
func (ep *EventPublisher) PublishStockAdjusted(ctx context.Context, stockItemID int64, delta, newAmount int) error {
	event := models.StockAdjustedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeStockAdjusted),
		StockItemID: stockItemID,
		Delta:       delta,
		NewAmount:   newAmount,
	}
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("stock-%d", stockItemID), event)
}
