package ratelimit_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-attendance/internal/ratelimit"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupLimiter(t *testing.T) (*ratelimit.RedisLimiter, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	clk := &fakeClock{now: time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)}
	return ratelimit.NewRedisLimiter(rdb).WithClock(clk.Now), mr, clk
}

func attemptN(t *testing.T, l *ratelimit.RedisLimiter, n int) int {
	t.Helper()
	allowed := 0
	for i := 0; i < n; i++ {
		ok, err := l.Attempt(context.Background(), "scan:attempt:E1", 10, time.Minute)
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}
	return allowed
}

func TestRedisLimiter_Attempt(t *testing.T) {
	t.Run("blocks the eleventh attempt", func(t *testing.T) {
		l, _, _ := setupLimiter(t)

		assert.Equal(t, 10, attemptN(t, l, 10))
		assert.Equal(t, 0, attemptN(t, l, 1))
	})

	t.Run("concurrent attempts never exceed max", func(t *testing.T) {
		l, _, _ := setupLimiter(t)

		var allowed atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := l.Attempt(context.Background(), "scan:attempt:E1", 10, time.Minute)
				if err == nil && ok {
					allowed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(10), allowed.Load())
	})

	t.Run("window rolls instead of resetting", func(t *testing.T) {
		l, _, clk := setupLimiter(t)

		assert.Equal(t, 1, attemptN(t, l, 1))
		clk.Advance(59 * time.Second)
		assert.Equal(t, 9, attemptN(t, l, 9))

		// Only the first attempt has aged out; the nine from 59s are still counted.
		clk.Advance(2 * time.Second)
		assert.Equal(t, 1, attemptN(t, l, 10))

		clk.Advance(57 * time.Second)
		assert.Equal(t, 0, attemptN(t, l, 1))
		clk.Advance(time.Second)
		assert.Equal(t, 9, attemptN(t, l, 10))
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _, _ := setupLimiter(t)

		assert.Equal(t, 10, attemptN(t, l, 12))
		ok, err := l.Attempt(context.Background(), "scan:attempt:E2", 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("key always carries a ttl", func(t *testing.T) {
		l, mr, _ := setupLimiter(t)

		attemptN(t, l, 1)
		assert.Equal(t, time.Minute, mr.TTL("ratelimit:scan:attempt:E1"))
	})

	t.Run("redis error is returned", func(t *testing.T) {
		l, mr, _ := setupLimiter(t)
		mr.SetError("LOADING")

		_, err := l.Attempt(context.Background(), "scan:attempt:E1", 10, time.Minute)
		assert.Error(t, err)
	})
}

func TestRedisLimiter_TooManyAttemptsAndHit(t *testing.T) {
	l, _, clk := setupLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Hit(ctx, "issue:E1", time.Minute))
	}

	blocked, err := l.TooManyAttempts(ctx, "issue:E1", 3, time.Minute)
	assert.NoError(t, err)
	assert.True(t, blocked)

	clk.Advance(time.Minute)
	blocked, err = l.TooManyAttempts(ctx, "issue:E1", 3, time.Minute)
	assert.NoError(t, err)
	assert.False(t, blocked)
}
