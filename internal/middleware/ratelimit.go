package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"usergraph/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

var errNoRateLimitStore = errors.New("redis client is nil")

// RateLimitExempt reports whether env skips rate limiting so local and test
// workflows are not throttled.
func RateLimitExempt(env string) bool {
	switch env {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// CheckRateLimit counts one hit for key in a fixed window.
// Returns true if allowed, false if limit exceeded.
func CheckRateLimit(ctx context.Context, rdb redis.Cmdable, key string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, errNoRateLimitStore
	}

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	Env      string
	Resource string
	Limit    int
	Window   time.Duration
	Policy   FailPolicy
	// KeyFunc builds the counter key; defaults to "ratelimit:<resource>:ip:<addr>".
	KeyFunc func(c *fiber.Ctx, resource string) string
}

// RateLimit returns a Fiber middleware enforcing cfg.Limit requests per cfg.Window, keyed by client IP.
func RateLimit(rdb redis.Cmdable, cfg RateLimitConfig) fiber.Handler {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *fiber.Ctx, resource string) string {
			return "ratelimit:" + resource + ":ip:" + c.IP()
		}
	}

	return func(c *fiber.Ctx) error {
		if RateLimitExempt(cfg.Env) || cfg.Limit <= 0 {
			return c.Next()
		}

		resource := cfg.Resource
		if resource == "" {
			resource = c.Path()
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, keyFunc(c, resource), cfg.Limit, cfg.Window)
		if err != nil {
			if cfg.Policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit fail-closed",
					slog.String("resource", resource), slog.String("error", err.Error()))
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					Error: "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
