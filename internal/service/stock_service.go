package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// StockItemRequest represents a stock item create/update request
type StockItemRequest struct {
	Name           string                `json:"name" binding:"required"`
	Amount         int                   `json:"amount" binding:"min=0"`
	Price          float64               `json:"price" binding:"min=0"`
	Customizations models.Customizations `json:"customizations"`
}

// StockService manages the stock item catalog. Quantity side effects
// of direct staff edits flow through the ledger so caches and
// listeners stay in sync with order-driven mutations.
type StockService struct {
	store  StockStore
	ledger *StockLedger
	cache  StockCache
	logger *zap.Logger
}

// NewStockService creates a new stock service
func NewStockService(store StockStore, ledger *StockLedger, cache StockCache) *StockService {
	return &StockService{
		store:  store,
		ledger: ledger,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ListStockItems returns all live stock items, optionally filtered by
// a name search term. The unfiltered list is served from cache when
// possible.
func (s *StockService) ListStockItems(ctx context.Context, searchTerm string) ([]models.StockItem, error) {
	ctx, span := util.StartSpan(ctx, "service.ListStockItems")
	defer span.End()

	if searchTerm == "" && s.cache != nil {
		if items, ok, err := s.cache.GetStockList(ctx); err != nil {
			s.logger.Warn("stock list cache read failed", zap.Error(err))
		} else if ok {
			return items, nil
		}
	}

	items, err := s.store.GetStockItems(ctx, searchTerm)
	if err != nil {
		return nil, err
	}

	if searchTerm == "" && s.cache != nil {
		if err := s.cache.CacheStockList(ctx, items); err != nil {
			s.logger.Warn("stock list cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

// GetStockItem returns a single stock item
func (s *StockService) GetStockItem(ctx context.Context, id int64) (*models.StockItem, error) {
	return s.store.GetStockItemByID(ctx, id)
}

// CreateStockItem adds a new catalog entry
func (s *StockService) CreateStockItem(ctx context.Context, req *StockItemRequest, byUserID *int64) (*models.StockItem, error) {
	ctx, span := util.StartSpan(ctx, "service.CreateStockItem")
	defer span.End()

	item := &models.StockItem{
		Name:           req.Name,
		Amount:         req.Amount,
		Price:          req.Price,
		Customizations: req.Customizations,
		CreatedBy:      byUserID,
	}
	if err := s.store.CreateStockItem(ctx, item); err != nil {
		return nil, err
	}
	s.ledger.NoteDirectMutation(ctx, item, item.Amount)
	return item, nil
}

// UpdateStockItem overwrites a catalog entry. An amount change is
// reported through the ledger like any other stock mutation.
func (s *StockService) UpdateStockItem(ctx context.Context, id int64, req *StockItemRequest, byUserID *int64) (*models.StockItem, error) {
	ctx, span := util.StartSpan(ctx, "service.UpdateStockItem")
	defer span.End()

	current, err := s.store.GetStockItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	delta := req.Amount - current.Amount
	now := time.Now()
	current.Name = req.Name
	current.Amount = req.Amount
	current.Price = req.Price
	current.Customizations = req.Customizations
	current.UpdatedBy = byUserID
	current.UpdatedAt = &now

	if err := s.store.UpdateStockItem(ctx, current); err != nil {
		return nil, err
	}
	s.ledger.NoteDirectMutation(ctx, current, delta)
	return current, nil
}

// DeleteStockItem soft-deletes a catalog entry. Existing orders keep
// their snapshots.
func (s *StockService) DeleteStockItem(ctx context.Context, id int64, byUserID *int64) (*models.StockItem, error) {
	ctx, span := util.StartSpan(ctx, "service.DeleteStockItem")
	defer span.End()

	item, err := s.store.SoftDeleteStockItem(ctx, id, byUserID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateStockList(ctx); err != nil {
			s.logger.Warn("stock list cache invalidation failed", zap.Error(err))
		}
	}
	return item, nil
}
