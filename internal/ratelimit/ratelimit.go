// Package ratelimit ограничивает частоту действий пользователя в боте.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Limiter interface {
	// Allow учитывает попытку по ключу и сообщает, укладывается ли она в лимит
	Allow(ctx context.Context, key string) (bool, error)
}

// Unlimited пропускает всё; используется без Redis
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }

// RedisLimiter фиксированное окно на INCR+PEXPIRE, общее для всех экземпляров бота
type RedisLimiter struct {
	rdb      redis.Scripter
	limit    int
	window   time.Duration
	prefix   string
	failOpen bool
	logger   *zap.Logger
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string, failOpen bool, logger *zap.Logger) *RedisLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{
		rdb:      rdb,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		failOpen: failOpen,
		logger:   logger,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.incr(ctx, l.prefix+":"+key)
	if err != nil {
		if l.failOpen {
			l.logger.Warn("Redis rate limiter error, allowing", zap.String("key", key), zap.Error(err))
			return true, nil
		}
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return count <= int64(l.limit), nil
}

func (l *RedisLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, l.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}
