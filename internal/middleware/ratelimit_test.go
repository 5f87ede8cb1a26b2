package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(rdb redis.Cmdable, cfg RateLimitConfig) *fiber.App {
	app := fiber.New()
	app.Post("/mutate", RateLimit(rdb, cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := newLimitedApp(rdb, RateLimitConfig{
		Env:      "production",
		Resource: "graph",
		Limit:    2,
		Window:   time.Minute,
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/mutate", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/mutate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	mr.FastForward(2 * time.Minute)
	resp, err = app.Test(httptest.NewRequest("POST", "/mutate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRateLimit_ExemptEnvironments(t *testing.T) {
	app := newLimitedApp(nil, RateLimitConfig{Env: "test", Limit: 1, Window: time.Minute, Policy: FailClosed})
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/mutate", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
}

func TestRateLimit_FailPolicies(t *testing.T) {
	open := newLimitedApp(nil, RateLimitConfig{Env: "production", Limit: 1, Window: time.Minute, Policy: FailOpen})
	resp, err := open.Test(httptest.NewRequest("POST", "/mutate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	closed := newLimitedApp(nil, RateLimitConfig{Env: "production", Limit: 1, Window: time.Minute, Policy: FailClosed})
	resp, err = closed.Test(httptest.NewRequest("POST", "/mutate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
