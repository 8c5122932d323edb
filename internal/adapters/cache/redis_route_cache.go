package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/platform/obs"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type cachedRoute struct {
	Cost  int   `json:"cost"`
	Stops []int `json:"stops"`
}

// RedisRouteCache stores solved tours in Redis with a TTL.
type RedisRouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRouteCache connects using a redis:// URL. A zero ttl keeps entries forever.
func NewRedisRouteCache(url string, ttl time.Duration) (*RedisRouteCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis route cache: parse url: %w", err)
	}
	return &RedisRouteCache{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get redis route cache: %w", err)
	}

	var cr cachedRoute
	if err := json.Unmarshal(b, &cr); err != nil {
		return domain.Route{}, false, fmt.Errorf("get redis route cache: decode: %w", err)
	}
	return domain.Route{Cost: cr.Cost, Stops: cr.Stops}, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, route domain.Route) error {
	if len(route.Stops) == 0 {
		return fmt.Errorf("put redis route cache: %w", domain.ErrEmptyRoute)
	}

	b, err := json.Marshal(cachedRoute{Cost: route.Cost, Stops: route.Stops})
	if err != nil {
		return fmt.Errorf("put redis route cache: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put redis route cache: %w", err)
	}
	return nil
}

func (c *RedisRouteCache) Close() error { return c.rdb.Close() }
