package config

import (
	"time"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig controls the response cache placed in front of public listing routes.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// RateLimitConfig drives the token bucket guarding public form submissions.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getenv("REDIS_ADDR", ""),
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       getint("REDIS_DB", 0),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getbool("CACHE_ENABLED", true),
		TTL:          getduration("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: getint("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        getbool("RATE_LIMIT_ENABLED", true),
		Capacity:       getint("RATE_LIMIT_CAPACITY", 5),
		RefillTokens:   getint("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: getduration("RATE_LIMIT_REFILL_INTERVAL", time.Minute),
		TTL:            getduration("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
