package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitStore(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckRateLimit_EnvBypass(t *testing.T) {
	for _, env := range []string{"test", "development", "stress"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			allowed, err := CheckRateLimit(context.Background(), nil,
				Limit{Name: "x", Max: 1, Window: time.Minute}, "ip:1.2.3.4")
			require.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestCheckRateLimit_NilStore(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	allowed, err := CheckRateLimit(context.Background(), nil, LoginLimit, "ip:1.2.3.4")
	require.Error(t, err)
	assert.False(t, allowed)
}

func TestCheckRateLimit_SpendsAndRefills(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr, rdb := limitStore(t)
	l := Limit{Name: "login", Max: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, l, "user:7")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := CheckRateLimit(ctx, rdb, l, "user:7")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Each subject has its own budget
	allowed, err = CheckRateLimit(ctx, rdb, l, "user:8")
	require.NoError(t, err)
	assert.True(t, allowed)

	// The window expires and the budget refills
	mr.FastForward(l.Window + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, l, "user:7")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	newApp := func(h fiber.Handler) *fiber.App {
		app := fiber.New()
		app.Get("/limited", h, func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		return app
	}
	hit := func(t *testing.T, app *fiber.App) int {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	t.Run("bypassed in test env", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		app := newApp(RateLimit(nil, Limit{Name: "x", Max: 1, Window: time.Minute}))
		assert.Equal(t, http.StatusOK, hit(t, app))
		assert.Equal(t, http.StatusOK, hit(t, app))
	})

	t.Run("exhausted budget rejects with 429", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, rdb := limitStore(t)
		app := newApp(RateLimit(rdb, Limit{Name: "x", Max: 1, Window: time.Minute}))
		assert.Equal(t, http.StatusOK, hit(t, app))
		assert.Equal(t, http.StatusTooManyRequests, hit(t, app))
	})

	t.Run("fail open without a store", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := newApp(RateLimit(nil, LoginLimit))
		assert.Equal(t, http.StatusOK, hit(t, app))
	})

	t.Run("fail closed without a store", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := newApp(RateLimitWithPolicy(nil, LoginLimit, FailClosed))
		assert.Equal(t, http.StatusServiceUnavailable, hit(t, app))
	})
}
