package reach

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisThrottle allows one fetch per handle per window, tracked in rl:reach:<handle> keys.
type RedisThrottle struct {
	client *redis.Client
	window time.Duration
}

func NewRedisThrottle(client *redis.Client, window time.Duration) *RedisThrottle {
	return &RedisThrottle{client: client, window: window}
}

// Allow reports whether handle may be fetched now and, if so, claims the window.
func (t *RedisThrottle) Allow(ctx context.Context, handle string) (bool, error) {
	return t.client.SetNX(ctx, "rl:reach:"+handle, "1", t.window).Result()
}
