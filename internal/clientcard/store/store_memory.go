package store

import (
	"context"
	"sync"
	"time"

	"escrow/internal/clientcard/metrics"
	"escrow/internal/clientcard/models"
	"escrow/pkg/platform/sentinel"
)

type cachedClient struct {
	record   models.ClientInformation
	storedAt time.Time
}

// InMemoryCache provides an in-memory cache for client cards with TTL expiration.
type InMemoryCache struct {
	mu       sync.RWMutex
	clients  map[string]cachedClient
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

// MemoryOption configures an InMemoryCache.
type MemoryOption func(*InMemoryCache)

// WithMemoryClock sets the clock function for testability.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *InMemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

func WithMemoryMetrics(m *metrics.Metrics) MemoryOption {
	return func(c *InMemoryCache) {
		c.metrics = m
	}
}

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
func NewInMemoryCache(cacheTTL time.Duration, opts ...MemoryOption) *InMemoryCache {
	c := &InMemoryCache{
		clients:  make(map[string]cachedClient),
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SaveClient stores a client card, keyed by client ID.
// If record is nil, the operation is a no-op and returns nil.
func (c *InMemoryCache) SaveClient(_ context.Context, record *models.ClientInformation) error {
	if record == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients[record.ID] = cachedClient{record: copyRecord(record), storedAt: c.now()}
	return nil
}

// FindClient retrieves a cached client card by client ID.
// Returns sentinel.ErrNotFound if the record does not exist or has expired past the cache TTL.
func (c *InMemoryCache) FindClient(_ context.Context, clientID string) (*models.ClientInformation, error) {
	c.mu.RLock()
	cached, ok := c.clients[clientID]
	c.mu.RUnlock()

	if ok && c.now().Sub(cached.storedAt) < c.cacheTTL {
		c.recordHit()
		record := copyRecord(&cached.record)
		return &record, nil
	}
	if ok {
		c.evict(clientID, cached.storedAt)
	}
	c.recordMiss()
	return nil, sentinel.ErrNotFound
}

// evict drops an expired entry unless it was refreshed since it was read.
func (c *InMemoryCache) evict(clientID string, storedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.clients[clientID]; ok && current.storedAt.Equal(storedAt) {
		delete(c.clients, clientID)
	}
}

// DeleteExpired removes entries older than the cache TTL and returns how
// many were removed.
func (c *InMemoryCache) DeleteExpired(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	var deleted int64
	for id, cached := range c.clients {
		if now.Sub(cached.storedAt) >= c.cacheTTL {
			delete(c.clients, id)
			deleted++
		}
	}
	return deleted, nil
}

// Len reports the number of entries held, expired ones included.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients)
}

// copyRecord detaches the address pointer so callers cannot mutate cached state.
func copyRecord(record *models.ClientInformation) models.ClientInformation {
	out := *record
	if record.Address != nil {
		addr := *record.Address
		out.Address = &addr
	}
	return out
}

func (c *InMemoryCache) recordHit() {
	if c.metrics != nil {
		c.metrics.RecordCacheHit("memory")
	}
}

func (c *InMemoryCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss("memory")
	}
}
