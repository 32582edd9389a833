package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sequenceapp/backend/internal/domain"
)

// DefaultResolveTTL bounds how long a resolved place is served from cache.
// Place data drifts slowly; a day keeps repeated pastes cheap without
// pinning stale names forever.
const DefaultResolveTTL = 24 * time.Hour

// RedisCache is a read-through cache in front of another Resolver, keyed on
// the raw pasted input. A nil client disables caching entirely, so callers
// can wire it unconditionally and let configuration decide.
type RedisCache struct {
	client *redis.Client
	next   Resolver
	ttl    time.Duration
}

// NewRedisCache wraps next with a Redis cache. client may be nil; ttl ≤ 0
// falls back to DefaultResolveTTL.
func NewRedisCache(client *redis.Client, next Resolver, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultResolveTTL
	}
	return &RedisCache{client: client, next: next, ttl: ttl}
}

// Resolve returns the cached place for rawInput when present, otherwise
// delegates and stores the result. Cache infrastructure failures degrade to
// a miss rather than failing the resolution.
func (c *RedisCache) Resolve(ctx context.Context, rawInput string) (domain.ResolvedPlace, error) {
	if c.client == nil {
		return c.next.Resolve(ctx, rawInput)
	}

	// Any read failure (a plain miss, an unreachable cache, a corrupt entry)
	// degrades to resolving fresh; resolution must not depend on the cache.
	key := "resolve:" + rawInput
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var place domain.ResolvedPlace
		if jsonErr := json.Unmarshal(raw, &place); jsonErr == nil {
			return place, nil
		}
	}

	place, err := c.next.Resolve(ctx, rawInput)
	if err != nil {
		return domain.ResolvedPlace{}, err
	}

	raw, err := json.Marshal(place)
	if err != nil {
		return domain.ResolvedPlace{}, fmt.Errorf("resolve.RedisCache.Resolve: marshal: %w", err)
	}
	// Failure to store is tolerated for the same reason reads are.
	c.client.Set(ctx, key, raw, c.ttl)

	return place, nil
}
