package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const redisLimiterPrefix = "jobconnect:ratelimit:"

// RedisLimiter is a fixed-window limiter shared by every API instance. It fails open.
type RedisLimiter struct {
	client  redis.UniversalClient
	script  *redis.Script
	logger  *slog.Logger
	timeout time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, logger *slog.Logger) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client:  client,
		script:  redis.NewScript(rateLimitScript),
		logger:  logger,
		timeout: 250 * time.Millisecond,
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{redisLimiterPrefix + key}, ttl, limit).Int64()
	if err != nil {
		if l.logger != nil {
			l.logger.Error("rate limiter unavailable", "key", key, "error", err)
		}
		return true
	}
	return allowed == 1
}
