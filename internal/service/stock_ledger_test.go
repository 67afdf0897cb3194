package service

import (
	"context"
	"testing"

	"pos-service/internal/mocks"
	"pos-service/internal/models"
	"pos-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ledgerMocks struct {
	stocks    *mocks.MockStockStore
	cache     *mocks.MockStockCache
	notifier  *mocks.MockNotifier
	publisher *mocks.MockPublisher
}

func newTestLedger(lowStockThreshold int) (*StockLedger, *ledgerMocks) {
	m := &ledgerMocks{
		stocks:    new(mocks.MockStockStore),
		cache:     new(mocks.MockStockCache),
		notifier:  new(mocks.MockNotifier),
		publisher: new(mocks.MockPublisher),
	}
	m.cache.On("SetStockAmount", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.cache.On("InvalidateStockList", mock.Anything).Return(nil).Maybe()
	m.publisher.On("PublishStockAdjusted", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewStockLedger(m.stocks, m.cache, m.notifier, m.publisher, lowStockThreshold), m
}

func notification(actionName string) interface{} {
	return mock.MatchedBy(func(n models.Notification) bool {
		return n.ActionName == actionName
	})
}

func TestApplyEmitsChangeNotification(t *testing.T) {
	ledger, m := newTestLedger(5)

	m.stocks.On("ApplyStockChangesTx", mock.Anything, []store.StockChange{{StockItemID: 11, Delta: -3}}).
		Return([]store.StockLevel{{StockItemID: 11, Name: "Burger", Amount: 7}}, nil)
	m.notifier.On("NotifyAll", notification(models.ActionStockItemChanged)).Once()

	levels, err := ledger.Apply(context.Background(), []store.StockChange{{StockItemID: 11, Delta: -3}})

	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 7, levels[0].Amount)
	m.notifier.AssertExpectations(t)
	m.notifier.AssertNotCalled(t, "NotifyAll", notification(models.ActionLowStockWarning))
}

func TestApplyLowStockWarningFiresAtThreshold(t *testing.T) {
	tests := []struct {
		name      string
		newAmount int
		warns     bool
	}{
		{name: "above threshold", newAmount: 6, warns: false},
		{name: "at threshold", newAmount: 5, warns: true},
		{name: "below threshold", newAmount: 2, warns: true},
		{name: "exhausted", newAmount: 0, warns: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, m := newTestLedger(5)

			m.stocks.On("ApplyStockChangesTx", mock.Anything, mock.Anything).
				Return([]store.StockLevel{{StockItemID: 11, Name: "Burger", Amount: tt.newAmount}}, nil)
			m.notifier.On("NotifyAll", notification(models.ActionStockItemChanged)).Once()
			if tt.warns {
				m.notifier.On("NotifyAll", mock.MatchedBy(func(n models.Notification) bool {
					if n.ActionName != models.ActionLowStockWarning {
						return false
					}
					payload, ok := n.ActionPayload.(map[string]interface{})
					return ok && payload["stockItemName"] == "Burger" && payload["amount"] == tt.newAmount
				})).Once()
			}

			_, err := ledger.Apply(context.Background(), []store.StockChange{{StockItemID: 11, Delta: -1}})

			require.NoError(t, err)
			m.notifier.AssertExpectations(t)
			if !tt.warns {
				m.notifier.AssertNumberOfCalls(t, "NotifyAll", 1)
			}
		})
	}
}

func TestApplyPropagatesInsufficientStock(t *testing.T) {
	ledger, m := newTestLedger(5)

	m.stocks.On("ApplyStockChangesTx", mock.Anything, mock.Anything).
		Return(nil, &models.InsufficientStockError{StockItemID: 11, Name: "Burger", Available: 2, Requested: 8})

	_, err := ledger.Apply(context.Background(), []store.StockChange{{StockItemID: 11, Delta: -8}})

	var insufficient *models.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "not enough stock for item Burger. Available: 2, Ordered: 8", insufficient.Error())
	m.notifier.AssertNotCalled(t, "NotifyAll", mock.Anything)
}

func TestNoteDirectMutationReportsNewLevel(t *testing.T) {
	ledger, m := newTestLedger(5)

	m.notifier.On("NotifyAll", notification(models.ActionStockItemChanged)).Once()
	m.notifier.On("NotifyAll", notification(models.ActionLowStockWarning)).Once()

	ledger.NoteDirectMutation(context.Background(), &models.StockItem{ID: 11, Name: "Burger", Amount: 4}, -6)

	m.notifier.AssertExpectations(t)
	m.cache.AssertCalled(t, "SetStockAmount", mock.Anything, int64(11), 4)
	m.publisher.AssertCalled(t, "PublishStockAdjusted", mock.Anything, int64(11), -6, 4)
}
