package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/stockroom/backend/internal/application/inventory"
)

// memorySummaryTTL bounds how long a stale entry can survive. Invalidation on
// mutation is the primary freshness mechanism; the TTL covers the window
// where a read-through Set lands after a concurrent mutation's Invalidate.
const memorySummaryTTL = 5 * time.Minute

// summaryEntry is a cached summary with its expiration
type summaryEntry struct {
	summary   appinventory.StockSummary
	expiresAt time.Time
}

// MemoryStockSummaryCache implements StockSummaryCache using an in-memory
// map. Suitable for single-instance deployments and testing.
type MemoryStockSummaryCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]summaryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStockSummaryCache creates an empty in-memory cache
func NewMemoryStockSummaryCache() *MemoryStockSummaryCache {
	return &MemoryStockSummaryCache{
		entries: make(map[uuid.UUID]summaryEntry),
		ttl:     memorySummaryTTL,
		now:     time.Now,
	}
}

// Get returns the cached summary and whether a live entry was present
func (c *MemoryStockSummaryCache) Get(_ context.Context, productID uuid.UUID) (*appinventory.StockSummary, bool) {
	c.mu.RLock()
	e, ok := c.entries[productID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have refreshed it.
		if current, still := c.entries[productID]; still && c.now().After(current.expiresAt) {
			delete(c.entries, productID)
		}
		c.mu.Unlock()
		return nil, false
	}
	// Copy out so callers cannot mutate the cached value.
	out := e.summary
	return &out, true
}

// Set stores the summary
func (c *MemoryStockSummaryCache) Set(_ context.Context, summary *appinventory.StockSummary) {
	if summary == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[summary.ProductID] = summaryEntry{
		summary:   *summary,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops the summary for the product
func (c *MemoryStockSummaryCache) Invalidate(_ context.Context, productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, productID)
}

var _ appinventory.StockSummaryCache = (*MemoryStockSummaryCache)(nil)
