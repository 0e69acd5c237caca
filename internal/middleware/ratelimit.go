package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sponsorlink/backend/internal/http/dto"
	"go.uber.org/zap"
)

// RateCounter is the subset of the redis client used by RateLimitMiddleware.
type RateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RateLimitMiddleware allows limit requests per route and client IP within window.
// Redis failures let the request through.
func RateLimitMiddleware(rdb RateCounter, limit int, window time.Duration, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limit <= 0 {
			return c.Next()
		}
		key := fmt.Sprintf("rl:%s:%s", c.Route().Path, c.IP())

		ctx := c.UserContext()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			// A counter without TTL would never reset.
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				log.Warn("rate limit expire failed, dropping counter", zap.String("key", key), zap.Error(err))
				if err := rdb.Del(ctx, key).Err(); err != nil {
					log.Error("rate limit counter left without ttl", zap.String("key", key), zap.Error(err))
				}
				return c.Next()
			}
		}

		if count > int64(limit) {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%.0f", window.Seconds()))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error:     "too many attempts, try again later",
				RequestID: RequestID(c),
			})
		}

		return c.Next()
	}
}
