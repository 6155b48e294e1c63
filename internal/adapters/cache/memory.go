package cache

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"conferencecentral/internal/domain"
)

const DefaultCleanupInterval = 30 * time.Minute

type memoryCache struct {
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewMemoryCache returns a NoticeCache held in process memory. A ttl of zero or less
// keeps entries until they are overwritten or deleted.
func NewMemoryCache(ttl time.Duration, logger *slog.Logger) domain.NoticeCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &memoryCache{
		cache:  gocache.New(ttl, DefaultCleanupInterval),
		logger: logger,
	}
}

func (c *memoryCache) Set(ctx context.Context, key, value string) {
	c.cache.SetDefault(key, value)
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, bool) {
	value, found := c.cache.Get(key)
	if !found {
		return "", false
	}
	v, ok := value.(string)
	if !ok {
		c.logger.ErrorContext(ctx, "wrong type in notice cache", "key", key)
		return "", false
	}
	return v, true
}

func (c *memoryCache) Delete(ctx context.Context, key string) {
	c.cache.Delete(key)
}
