package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/config"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

// tokenBucketScript refills whole intervals since the last refill, then takes
// one token. It returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'refilled_at')
local tokens = tonumber(state[1])
local refilled_at = tonumber(state[2])
if tokens == nil or refilled_at == nil then
	tokens = capacity
	refilled_at = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local intervals = math.floor(math.max(0, now_ms - refilled_at) / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals * refill_tokens)
		refilled_at = refilled_at + intervals * interval_ms
	end
end

local allowed = 0
local retry_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_ms = math.max(0, interval_ms - (now_ms - refilled_at))
end

redis.call('HSET', key, 'tokens', tokens, 'refilled_at', refilled_at)
redis.call('EXPIRE', key, ttl_seconds)
return {allowed, tokens, retry_ms}
`)

// RateLimit guards public form submissions with a per client, per route token
// bucket held in Redis. Redis failures let the request through.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, logger *zap.Logger) echo.MiddlewareFunc {
	return rateLimit(cfg, rdb, logger, time.Now)
}

func rateLimit(cfg config.RateLimitConfig, rdb *redis.Client, logger *zap.Logger, now func() time.Time) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil || cfg.Capacity <= 0 {
		return passThrough
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttlSeconds := int64(cfg.TTL / time.Second)
	if ttlSeconds <= 0 {
		ttlSeconds = 60
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			res, err := tokenBucketScript.Run(c.Request().Context(), rdb, []string{key},
				now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				ttlSeconds,
			).Int64Slice()
			if err != nil || len(res) != 3 {
				logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
				return next(c)
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			header.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
			if res[0] == 1 {
				return next(c)
			}

			retry := int(math.Ceil(float64(res[2]) / 1000))
			header.Set("Retry-After", strconv.Itoa(retry))
			return c.JSON(http.StatusTooManyRequests, util.Error("too many requests, try again later"))
		}
	}
}

func rateKey(prefix string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{prefix, ip, c.Request().Method, c.Path()}, ":")
}
