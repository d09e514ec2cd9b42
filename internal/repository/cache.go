package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tribemart/tribemart-orders-service/internal/config"
	"github.com/tribemart/tribemart-orders-service/internal/models"
)

const (
	orderKeyPrefix   = "order:"
	userOrdersPrefix = "user_orders:"
	defaultCacheTTL  = 5 * time.Minute
)

// RedisOrderCache caches single orders and first-page user order lists.
// Cache failures are reported to callers but never fail a request.
type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisOrderCache creates a new Redis-based order cache.
func NewRedisOrderCache(cfg *config.Config, logger *slog.Logger) *RedisOrderCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ttl := cfg.Redis.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &RedisOrderCache{client: client, ttl: ttl, logger: logger}
}

// Get retrieves an order from cache. A miss returns (nil, nil).
func (c *RedisOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	data, err := c.client.Get(ctx, orderKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Warn("cache get failed", "order_id", id, "error", err)
		return nil, err
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Set stores an order in cache with the configured TTL.
func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, orderKeyPrefix+order.ID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "order_id", order.ID, "error", err)
		return err
	}
	return nil
}

// Delete removes a single order from cache.
func (c *RedisOrderCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, orderKeyPrefix+id).Err()
}

// cachedOrderPage is the stored shape of a user's first listing page. The
// total matching count is cached with the page so a cache hit reports the
// same total as the database path.
type cachedOrderPage struct {
	Orders []*models.Order `json:"orders"`
	Total  int             `json:"total"`
}

// GetUserOrders retrieves the cached first page of a user's orders and the
// total matching count. A miss returns (nil, 0, nil).
func (c *RedisOrderCache) GetUserOrders(ctx context.Context, userID string) ([]*models.Order, int, error) {
	data, err := c.client.Get(ctx, userOrdersPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	var page cachedOrderPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, 0, err
	}
	return page.Orders, page.Total, nil
}

// SetUserOrders caches the first page of a user's orders with its total count.
func (c *RedisOrderCache) SetUserOrders(ctx context.Context, userID string, orders []*models.Order, total int) error {
	data, err := json.Marshal(cachedOrderPage{Orders: orders, Total: total})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userOrdersPrefix+userID, data, c.ttl).Err()
}

// InvalidateUserOrders drops the cached order list for a user.
func (c *RedisOrderCache) InvalidateUserOrders(ctx context.Context, userID string) error {
	return c.client.Del(ctx, userOrdersPrefix+userID).Err()
}
