package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/agrodesk/farm-manager/internal/config"
)

// RateLimit applies a fixed-window counter per client IP and route, backed
// by Redis. The first request in a window creates the counter with the
// window TTL; requests beyond the capacity get 429 with a Retry-After.
// When the limiter is disabled or Redis is unavailable the middleware is a
// pass-through, and a Redis error at request time fails open.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.Prefix + ":" + c.RealIP() + ":" + c.Path()
			ctx := c.Request().Context()

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if n == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}
			if n > int64(cfg.Capacity) {
				ttl, _ := rdb.TTL(ctx, key).Result()
				if ttl <= 0 {
					ttl = cfg.Window
				}
				c.Response().Header().Set("Retry-After",
					strconv.Itoa(int(ttl/time.Second)+1))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
