package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	stockKeyPrefix    = "stock:"
	stockListKey      = "stock:list"
	stockListCacheTTL = 5 * time.Minute
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetStockAmount mirrors a stock item's committed on-hand amount
func (c *Client) SetStockAmount(ctx context.Context, stockItemID int64, amount int) error {
	return c.rdb.Set(ctx, fmt.Sprintf("%s%d", stockKeyPrefix, stockItemID), amount, 0).Err()
}

// GetStockAmount reads the mirrored on-hand amount. Returns found =
// false when the item has not been mirrored.
func (c *Client) GetStockAmount(ctx context.Context, stockItemID int64) (int, bool, error) {
	amount, err := c.rdb.Get(ctx, fmt.Sprintf("%s%d", stockKeyPrefix, stockItemID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

// CacheStockList stores the full stock item list for dashboard reads
func (c *Client) CacheStockList(ctx context.Context, items []models.StockItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, stockListKey, data, stockListCacheTTL).Err()
}

// GetStockList reads the cached stock item list. Returns found = false
// on cache miss.
func (c *Client) GetStockList(ctx context.Context) ([]models.StockItem, bool, error) {
	data, err := c.rdb.Get(ctx, stockListKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []models.StockItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// InvalidateStockList drops the cached list after any stock mutation
func (c *Client) InvalidateStockList(ctx context.Context) error {
	return c.rdb.Del(ctx, stockListKey).Err()
}
