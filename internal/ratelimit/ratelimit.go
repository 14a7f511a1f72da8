package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter admits at most max attempts per key in any rolling window.
type Limiter interface {
	Attempt(ctx context.Context, key string, max int64, window time.Duration) (bool, error)
}

// Each key is a sorted set of attempt timestamps in milliseconds. Pruning,
// counting and recording run inside one script so concurrent callers cannot
// all pass the check before any of them is counted.
var (
	attemptScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', tonumber(ARGV[1]) - tonumber(ARGV[2]))
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

	countScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', tonumber(ARGV[1]) - tonumber(ARGV[2]))
return redis.call('ZCARD', KEYS[1])
`)

	hitScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', tonumber(ARGV[1]) - tonumber(ARGV[2]))
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return redis.call('ZCARD', KEYS[1])
`)
)

type RedisLimiter struct {
	rdb    redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(rdb redis.Scripter) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: "ratelimit:", now: time.Now}
}

// WithClock replaces the time source used to stamp attempts.
func (l *RedisLimiter) WithClock(now func() time.Time) *RedisLimiter {
	l.now = now
	return l
}

// Attempt records the attempt and reports true only when fewer than max
// attempts were recorded for key during the preceding window.
func (l *RedisLimiter) Attempt(ctx context.Context, key string, max int64, window time.Duration) (bool, error) {
	allowed, err := attemptScript.Run(ctx, l.rdb, []string{l.prefix + key},
		l.now().UnixMilli(), window.Milliseconds(), max, uuid.NewString(),
	).Int64()
	if err != nil {
		return false, err
	}
	return allowed == 1, nil
}

func (l *RedisLimiter) TooManyAttempts(ctx context.Context, key string, max int64, window time.Duration) (bool, error) {
	n, err := countScript.Run(ctx, l.rdb, []string{l.prefix + key},
		l.now().UnixMilli(), window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, err
	}
	return n >= max, nil
}

// Hit records an attempt unconditionally.
func (l *RedisLimiter) Hit(ctx context.Context, key string, window time.Duration) error {
	return hitScript.Run(ctx, l.rdb, []string{l.prefix + key},
		l.now().UnixMilli(), window.Milliseconds(), uuid.NewString(),
	).Err()
}
