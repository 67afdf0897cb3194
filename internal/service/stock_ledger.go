package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// StockLedger owns authoritative on-hand quantities. All quantity
// mutations, whether from staff edits or order transitions, go through
// it so the change notifications and low-stock warnings fire exactly
// once per committed mutation.
type StockLedger struct {
	store             StockStore
	cache             StockCache
	notifier          Notifier
	publisher         Publisher
	lowStockThreshold int
	logger            *zap.Logger
}

// NewStockLedger creates a new stock ledger
func NewStockLedger(
	stockStore StockStore,
	cache StockCache,
	notifier Notifier,
	publisher Publisher,
	lowStockThreshold int,
) *StockLedger {
	return &StockLedger{
		store:             stockStore,
		cache:             cache,
		notifier:          notifier,
		publisher:         publisher,
		lowStockThreshold: lowStockThreshold,
		logger:            util.GetLogger(),
	}
}

// Apply commits a group of signed stock adjustments atomically. Either
// every change is applied or none is: an order transition touching
// several items cannot leave a partial decrement behind.
func (l *StockLedger) Apply(ctx context.Context, changes []store.StockChange) ([]store.StockLevel, error) {
	ctx, span := util.StartSpan(ctx, "StockLedger.Apply")
	defer span.End()

	start := time.Now()
	levels, err := l.store.ApplyStockChangesTx(ctx, changes)
	util.StockAdjustLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	deltas := make(map[int64]int, len(changes))
	for _, change := range changes {
		deltas[change.StockItemID] += change.Delta
		if change.Delta < 0 {
			util.StockDecrementsTotal.Inc()
		} else if change.Delta > 0 {
			util.StockIncrementsTotal.Inc()
		}
	}

	for _, level := range levels {
		l.reportMutation(ctx, level, deltas[level.StockItemID])
	}
	return levels, nil
}

// Decrement atomically reduces one item's amount, failing with
// InsufficientStockError when not enough is on hand
func (l *StockLedger) Decrement(ctx context.Context, stockItemID int64, quantity int) error {
	_, err := l.Apply(ctx, []store.StockChange{{StockItemID: stockItemID, Delta: -quantity}})
	return err
}

// Increment atomically increases one item's amount. No upper bound.
func (l *StockLedger) Increment(ctx context.Context, stockItemID int64, quantity int) error {
	_, err := l.Apply(ctx, []store.StockChange{{StockItemID: stockItemID, Delta: quantity}})
	return err
}

// NoteDirectMutation emits the mutation side effects for an amount
// that was written outside the adjustment transaction (staff edits).
func (l *StockLedger) NoteDirectMutation(ctx context.Context, item *models.StockItem, delta int) {
	l.reportMutation(ctx, store.StockLevel{
		StockItemID: item.ID,
		Name:        item.Name,
		Amount:      item.Amount,
	}, delta)
}

// reportMutation fans out the side effects of one committed mutation:
// the global change notification, the low-stock warning, the cache
// mirror and the audit event. All best-effort.
func (l *StockLedger) reportMutation(ctx context.Context, level store.StockLevel, delta int) {
	l.notifier.NotifyAll(models.NewActionNotification(models.ActionStockItemChanged, map[string]interface{}{
		"stockItemId": level.StockItemID,
	}))

	if level.Amount <= l.lowStockThreshold {
		util.LowStockWarningsTotal.Inc()
		l.notifier.NotifyAll(models.NewActionNotification(models.ActionLowStockWarning, map[string]interface{}{
			"stockItemName": level.Name,
			"amount":        level.Amount,
			"severity":      "warn",
		}))
	}

	if err := l.cache.SetStockAmount(ctx, level.StockItemID, level.Amount); err != nil {
		l.logger.Warn("Failed to mirror stock amount",
			zap.Int64("stock_item_id", level.StockItemID), zap.Error(err))
	}
	if err := l.cache.InvalidateStockList(ctx); err != nil {
		l.logger.Warn("Failed to invalidate stock list cache", zap.Error(err))
	}

	if err := l.publisher.PublishStockAdjusted(ctx, level.StockItemID, delta, level.Amount); err != nil {
		l.logger.Error("Failed to publish StockAdjusted event",
			zap.Int64("stock_item_id", level.StockItemID), zap.Error(err))
	}
}

// SyncStockToCache mirrors the full stock table into Redis at startup
func (l *StockLedger) SyncStockToCache(ctx context.Context) error {
	items, err := l.store.GetStockItems(ctx, "")
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := l.cache.SetStockAmount(ctx, item.ID, item.Amount); err != nil {
			l.logger.Error("Failed to mirror stock amount",
				zap.Int64("stock_item_id", item.ID), zap.Error(err))
		}
	}

	l.logger.Info("Stock mirror sync completed", zap.Int("count", len(items)))
	return nil
}
