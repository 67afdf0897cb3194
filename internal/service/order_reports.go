package service

import (
	"context"
	"math"
	"sort"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// OptionPreparation is the per-option slice of a preparation row,
// telling kitchen staff how many units of each variant to make.
type OptionPreparation struct {
	CustomizationName string `json:"customizationName"`
	OptionName        string `json:"optionName"`
	Count             int    `json:"count"`
}

// PreparationItem reports how many units of a stock item the open
// orders require beyond what is on hand.
type PreparationItem struct {
	StockItemID       int64               `json:"stockItemId"`
	StockItemName     string              `json:"stockItemName"`
	StockItemQuantity int                 `json:"stockItemQuantity"`
	RequiredQuantity  int                 `json:"requiredQuantity"`
	OptionBreakdown   []OptionPreparation `json:"optionBreakdown,omitempty"`
}

// StatisticsViewModel is the dashboard summary payload
type StatisticsViewModel struct {
	InitializedOrdersCount        int     `json:"initializedOrdersCount"`
	InitializedOrdersCountPercent float64 `json:"initializedOrdersCountPercent"`
	MostSoldStockItem             string  `json:"mostSoldStockItem"`
	NewlyAddedUsersCount          int     `json:"newlyAddedUsersCount"`
	NewlyAddedUsersCountPercent   float64 `json:"newlyAddedUsersCountPercent"`
}

// itemDemand accumulates the ordered quantities for one stock item
// across all initialized orders.
type itemDemand struct {
	total int
	// option unit counts keyed by customization id then option id
	perOption map[string]map[string]int
}

// ItemsPreparations sums the ordered quantity per stock item across
// all INITIALIZED orders and reports the shortfall against current
// stock, clamped at zero, with a per-customization-option breakdown.
func (s *OrderService) ItemsPreparations(ctx context.Context) ([]PreparationItem, error) {
	ctx, span := util.StartSpan(ctx, "service.ItemsPreparations")
	defer span.End()

	orders, err := s.orders.GetOrdersByStatus(ctx, models.OrderStatusInitialized)
	if err != nil {
		return nil, err
	}

	demand := map[int64]*itemDemand{}
	for _, order := range orders {
		for _, item := range order.Items {
			d, ok := demand[item.StockItemID]
			if !ok {
				d = &itemDemand{perOption: map[string]map[string]int{}}
				demand[item.StockItemID] = d
			}
			d.total += item.Amount

			// Count overrides Amount for the variant breakdown when a
			// customized subset of the line was recorded separately.
			units := item.Amount
			if item.Count != nil {
				units = *item.Count
			}
			for _, sel := range item.SelectedOptions {
				byOption, ok := d.perOption[sel.CustomizationID]
				if !ok {
					byOption = map[string]int{}
					d.perOption[sel.CustomizationID] = byOption
				}
				byOption[sel.OptionID] += units
			}
		}
	}

	if len(demand) == 0 {
		return []PreparationItem{}, nil
	}

	ids := make([]int64, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	stockItems, err := s.stocks.GetStockItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]PreparationItem, 0, len(stockItems))
	for _, stockItem := range stockItems {
		d := demand[stockItem.ID]
		if d == nil {
			continue
		}
		required := d.total - stockItem.Amount
		if required < 0 {
			required = 0
		}
		result = append(result, PreparationItem{
			StockItemID:       stockItem.ID,
			StockItemName:     stockItem.Name,
			StockItemQuantity: stockItem.Amount,
			RequiredQuantity:  required,
			OptionBreakdown:   s.optionBreakdown(&stockItem, d),
		})
	}
	return result, nil
}

// optionBreakdown resolves the accumulated option counts against the
// stock item's customization tree. Dangling references are skipped and
// logged; a per-customization count that does not add up to the total
// ordered quantity is logged but still reported.
func (s *OrderService) optionBreakdown(stockItem *models.StockItem, d *itemDemand) []OptionPreparation {
	var breakdown []OptionPreparation
	for _, customization := range stockItem.Customizations {
		byOption, ok := d.perOption[customization.ID]
		if !ok {
			continue
		}
		customizationTotal := 0
		for _, option := range customization.Options {
			count, ok := byOption[option.ID]
			if !ok {
				continue
			}
			customizationTotal += count
			breakdown = append(breakdown, OptionPreparation{
				CustomizationName: customization.Name,
				OptionName:        option.Name,
				Count:             count,
			})
		}
		for optionID, count := range byOption {
			if !customizationHasOption(&customization, optionID) {
				s.logger.Warn("preparation breakdown references unknown option",
					zap.Int64("stock_item_id", stockItem.ID),
					zap.String("customization_id", customization.ID),
					zap.String("option_id", optionID),
					zap.Int("count", count))
			}
		}
		if customizationTotal != d.total {
			s.logger.Warn("preparation option counts do not match ordered total",
				zap.Int64("stock_item_id", stockItem.ID),
				zap.String("customization", customization.Name),
				zap.Int("option_total", customizationTotal),
				zap.Int("ordered_total", d.total))
		}
	}
	return breakdown
}

// Statistics builds the dashboard summary. mostSoldDays and
// newCustomersDays bound the respective lookback windows.
func (s *OrderService) Statistics(ctx context.Context, mostSoldDays, newCustomersDays int) (*StatisticsViewModel, error) {
	ctx, span := util.StartSpan(ctx, "service.Statistics")
	defer span.End()

	initializedCount, err := s.orders.CountOrdersByStatus(ctx, models.OrderStatusInitialized)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orders.CountOrders(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newCustomers, err := s.customers.CountCustomersSince(ctx, now.AddDate(0, 0, -newCustomersDays))
	if err != nil {
		return nil, err
	}
	totalCustomers, err := s.customers.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	mostSold, err := s.mostSoldStockItem(ctx, now.AddDate(0, 0, -mostSoldDays), now)
	if err != nil {
		return nil, err
	}

	return &StatisticsViewModel{
		InitializedOrdersCount:        initializedCount,
		InitializedOrdersCountPercent: percentOf(initializedCount, totalOrders),
		MostSoldStockItem:             mostSold,
		NewlyAddedUsersCount:          newCustomers,
		NewlyAddedUsersCountPercent:   percentOf(newCustomers, totalCustomers),
	}, nil
}

// mostSoldStockItem returns the name of the stock item with the
// highest total ordered amount over the window, across non-canceled
// orders. Empty string when there were no orders.
func (s *OrderService) mostSoldStockItem(ctx context.Context, start, end time.Time) (string, error) {
	orders, err := s.orders.GetOrdersInRange(ctx, start, end, []int{
		models.OrderStatusInitialized,
		models.OrderStatusProcessing,
		models.OrderStatusDelivered,
	})
	if err != nil {
		return "", err
	}

	counts := map[int64]int{}
	for _, order := range orders {
		for _, item := range order.Items {
			counts[item.StockItemID] += item.Amount
		}
	}

	var bestID int64
	bestCount := 0
	for id, count := range counts {
		if count > bestCount || (count == bestCount && bestCount > 0 && id < bestID) {
			bestID = id
			bestCount = count
		}
	}
	if bestCount == 0 {
		return "", nil
	}

	stockItem, err := s.stocks.GetStockItemByID(ctx, bestID)
	if err != nil {
		s.logger.Warn("most sold stock item lookup failed", zap.Int64("stock_item_id", bestID), zap.Error(err))
		return "", nil
	}
	return stockItem.Name, nil
}

func customizationHasOption(customization *models.Customization, optionID string) bool {
	for i := range customization.Options {
		if customization.Options[i].ID == optionID {
			return true
		}
	}
	return false
}

func percentOf(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
