package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const detailKeyPrefix = "product:detail:"

// DetailTTL bounds how stale a cached product detail may get; purchases
// invalidate the entry eagerly, the TTL only covers out-of-band stock edits.
const DetailTTL = 30 * time.Second

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity
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

// GetProductDetail returns a cached product detail, or (nil, nil) on a miss
func (c *Client) GetProductDetail(ctx context.Context, productID int64) (*models.ProductDetail, error) {
	key := fmt.Sprintf("%s%d", detailKeyPrefix, productID)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached detail: %w", err)
	}

	var detail models.ProductDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("decode cached detail: %w", err)
	}
	return &detail, nil
}

// SetProductDetail caches a product detail with the standard TTL
func (c *Client) SetProductDetail(ctx context.Context, detail *models.ProductDetail) error {
	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encode detail: %w", err)
	}

	key := fmt.Sprintf("%s%d", detailKeyPrefix, detail.ID)
	return c.rdb.Set(ctx, key, raw, DetailTTL).Err()
}

// InvalidateProductDetail drops the cached detail for a product
func (c *Client) InvalidateProductDetail(ctx context.Context, productID int64) error {
	key := fmt.Sprintf("%s%d", detailKeyPrefix, productID)
	return c.rdb.Del(ctx, key).Err()
}
