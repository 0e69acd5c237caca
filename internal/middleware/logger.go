package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/metrics"
	"go.uber.org/zap"
)

// LoggerMiddleware logs one line per request and records the request metrics.
func LoggerMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The error handler runs after this middleware returns.
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		latency := time.Since(start)
		route := c.Route().Path

		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(latency.Seconds())

		fields := []zap.Field{
			zap.String("request_id", RequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if userID, ok := CurrentUserID(c); ok {
			fields = append(fields, zap.Int64("user_id", userID))
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request", append(fields, zap.Error(err))...)
		} else {
			log.Info("request", fields...)
		}

		return err
	}
}
