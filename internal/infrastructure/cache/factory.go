package cache

import (
	"fmt"

	"go.uber.org/zap"

	appinventory "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/infrastructure/config"
)

// StockSummaryCacheFactory creates stock summary caches based on configuration
type StockSummaryCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StockSummaryCacheFactoryOption is a functional option for configuring the factory
type StockSummaryCacheFactoryOption func(*StockSummaryCacheFactory)

// WithLogger sets the logger for the factory and the caches it creates
func WithLogger(logger *zap.Logger) StockSummaryCacheFactoryOption {
	return func(f *StockSummaryCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StockSummaryCacheFactoryOption {
	return func(f *StockSummaryCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStockSummaryCacheFactory creates a new factory
func NewStockSummaryCacheFactory(cfg config.RedisConfig, opts ...StockSummaryCacheFactoryOption) *StockSummaryCacheFactory {
	f := &StockSummaryCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache creates a Redis-backed stock summary cache
func (f *StockSummaryCacheFactory) CreateRedisCache() (appinventory.StockSummaryCache, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	c, err := NewRedisStockSummaryCache(redisCfg, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis stock summary cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates an in-memory stock summary cache. Suitable for
// single-instance deployments and testing; state is not shared across
// processes.
func (f *StockSummaryCacheFactory) CreateInMemoryCache() appinventory.StockSummaryCache {
	return NewMemoryStockSummaryCache()
}

// CreateCache creates a cache based on whether Redis is available. It tries
// Redis first and falls back to in-memory when allowed.
func (f *StockSummaryCacheFactory) CreateCache() (appinventory.StockSummaryCache, error) {
	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis stock summary cache")
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for stock summary cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stock summary cache. "+
		"Summaries will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
