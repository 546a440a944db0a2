package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appinventory "github.com/stockroom/backend/internal/application/inventory"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisStockSummaryCache implements StockSummaryCache using Redis. Suitable
// for deployments with multiple service instances sharing one cache.
//
// Cache failures never fail the request: a read error is reported as a miss
// and a write error is logged and dropped. Entries carry a TTL as a backstop
// for invalidations lost to such dropped writes.
type RedisStockSummaryCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

const (
	stockSummaryKeyPrefix = "stock:summary:"
	stockSummaryTTL       = 24 * time.Hour
)

// NewRedisStockSummaryCache creates a Redis-backed cache and verifies the
// connection.
func NewRedisStockSummaryCache(cfg RedisConfig, logger *zap.Logger) (*RedisStockSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStockSummaryCache{
		client:    client,
		keyPrefix: stockSummaryKeyPrefix,
		ttl:       stockSummaryTTL,
		logger:    logger,
	}, nil
}

// NewRedisStockSummaryCacheWithClient creates a cache over an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisStockSummaryCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisStockSummaryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStockSummaryCache{
		client:    client,
		keyPrefix: stockSummaryKeyPrefix,
		ttl:       stockSummaryTTL,
		logger:    logger,
	}
}

func (c *RedisStockSummaryCache) key(productID uuid.UUID) string {
	return c.keyPrefix + productID.String()
}

// Get returns the cached summary and whether it was present
func (c *RedisStockSummaryCache) Get(ctx context.Context, productID uuid.UUID) (*appinventory.StockSummary, bool) {
	payload, err := c.client.Get(ctx, c.key(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stock summary cache read failed",
				zap.String("product_id", productID.String()),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var summary appinventory.StockSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		c.logger.Warn("stock summary cache entry corrupt, dropping",
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
		c.client.Del(ctx, c.key(productID))
		return nil, false
	}
	return &summary, true
}

// Set stores the summary
func (c *RedisStockSummaryCache) Set(ctx context.Context, summary *appinventory.StockSummary) {
	if summary == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("stock summary cache encode failed",
			zap.String("product_id", summary.ProductID.String()),
			zap.Error(err),
		)
		return
	}
	if err := c.client.Set(ctx, c.key(summary.ProductID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("stock summary cache write failed",
			zap.String("product_id", summary.ProductID.String()),
			zap.Error(err),
		)
	}
}

// Invalidate drops the summary for the product
func (c *RedisStockSummaryCache) Invalidate(ctx context.Context, productID uuid.UUID) {
	if err := c.client.Del(ctx, c.key(productID)).Err(); err != nil {
		c.logger.Warn("stock summary cache invalidation failed",
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
	}
}

var _ appinventory.StockSummaryCache = (*RedisStockSummaryCache)(nil)
