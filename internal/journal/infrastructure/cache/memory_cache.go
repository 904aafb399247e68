package cache

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
)

type memoryItem struct {
	trends    services.Trends
	expiresAt time.Time
}

// MemoryInsightsCache keeps insights in process memory with a TTL. It is
// used when Redis is not configured.
type MemoryInsightsCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]map[string]memoryItem
}

// NewMemoryInsightsCache creates an empty cache. A non-positive ttl selects
// DefaultTTL.
func NewMemoryInsightsCache(ttl time.Duration) *MemoryInsightsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryInsightsCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]map[string]memoryItem),
	}
}

func (c *MemoryInsightsCache) Get(_ context.Context, userID, rangeKey string) (*services.Trends, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[userID][rangeKey]
	if !ok {
		return nil, nil
	}
	if !c.now().Before(item.expiresAt) {
		delete(c.items[userID], rangeKey)
		return nil, nil
	}
	trends := item.trends
	return &trends, nil
}

func (c *MemoryInsightsCache) Set(_ context.Context, userID, rangeKey string, trends *services.Trends) error {
	if trends == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.items[userID] == nil {
		c.items[userID] = make(map[string]memoryItem)
	}
	c.items[userID][rangeKey] = memoryItem{trends: *trends, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryInsightsCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, userID)
	return nil
}

// NoopInsightsCache never stores anything; every Get is a miss.
type NoopInsightsCache struct{}

func (NoopInsightsCache) Get(context.Context, string, string) (*services.Trends, error) {
	return nil, nil
}

func (NoopInsightsCache) Set(context.Context, string, string, *services.Trends) error { return nil }

func (NoopInsightsCache) Invalidate(context.Context, string) error { return nil }

var (
	_ services.InsightsCache = (*RedisInsightsCache)(nil)
	_ services.InsightsCache = (*MemoryInsightsCache)(nil)
	_ services.InsightsCache = NoopInsightsCache{}
)
