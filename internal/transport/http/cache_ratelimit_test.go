package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/Estate_Site_BackEnd/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestResponseCacheServesSecondRequestFromRedis(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 10}

	calls := 0
	e := echo.New()
	e.GET("/api/v1/blogs", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]int{"calls": calls})
	}, ResponseCache(cfg, rdb, nil))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/blogs?limit=5", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get(cacheHeader))

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/blogs?limit=5", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get(cacheHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	other := httptest.NewRecorder()
	e.ServeHTTP(other, httptest.NewRequest(http.MethodGet, "/api/v1/blogs?limit=6", nil))
	assert.Equal(t, "MISS", other.Header().Get(cacheHeader))
	assert.Equal(t, 2, calls)
}

func TestResponseCacheKeepsPathParamsApart(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 10}

	e := echo.New()
	e.GET("/api/v1/blogs/:idOrSlug", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"slug": c.Param("idOrSlug")})
	}, ResponseCache(cfg, rdb, nil))

	for _, slug := range []string{"first-post", "second-post", "first-post"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/blogs/"+slug, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"slug":"`+slug+`"}`, rec.Body.String())
	}

	again := httptest.NewRecorder()
	e.ServeHTTP(again, httptest.NewRequest(http.MethodGet, "/api/v1/blogs/second-post", nil))
	assert.Equal(t, "HIT", again.Header().Get(cacheHeader))
	assert.JSONEq(t, `{"slug":"second-post"}`, again.Body.String())
}

func TestResponseCacheSkipsErrorsAndOversizedBodies(t *testing.T) {
	mr, rdb := newTestRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 16}

	e := echo.New()
	e.GET("/missing", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "nope"})
	}, ResponseCache(cfg, rdb, nil))
	e.GET("/large", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "this body is longer than sixteen bytes"})
	}, ResponseCache(cfg, rdb, nil))

	for _, path := range []string{"/missing", "/large"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Empty(t, mr.Keys())
}

func TestInvalidateCacheClearsPrefixAfterWrite(t *testing.T) {
	mr, rdb := newTestRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}
	require.NoError(t, mr.Set("cache:abc", "{}"))
	require.NoError(t, mr.Set("rl:other", "1"))

	e := echo.New()
	e.POST("/api/v1/admin/blogs", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, InvalidateCache(cfg, rdb, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/blogs", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, mr.Exists("cache:abc"))
	assert.True(t, mr.Exists("rl:other"))
}

func TestRateLimitBlocksAfterCapacityAndRefills(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		Prefix:         "rl",
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	e := echo.New()
	e.POST("/api/v1/contact", func(c echo.Context) error {
		return c.NoContent(http.StatusAccepted)
	}, rateLimit(cfg, rdb, nil, clock))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusAccepted, send().Code)
	second := send()
	assert.Equal(t, http.StatusAccepted, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	blocked := send()
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusAccepted, send().Code)
	assert.Equal(t, http.StatusTooManyRequests, send().Code)
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Minute, TTL: time.Minute, Prefix: "rl"}

	e := echo.New()
	e.POST("/api/v1/contact", func(c echo.Context) error {
		return c.NoContent(http.StatusAccepted)
	}, RateLimit(cfg, rdb, nil))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Minute, TTL: time.Minute, Prefix: "rl"}

	e := NewRouter([]string{"*"}, nil, nil)
	e.POST("/api/v1/contact", func(c echo.Context) error {
		return c.NoContent(http.StatusAccepted)
	}, RateLimit(cfg, rdb, nil))

	allowed := 0
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code == http.StatusAccepted {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
}

func TestRateLimitUsesForwardedForBehindTrustedProxy(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Minute, TTL: time.Minute, Prefix: "rl"}

	e := NewRouter([]string{"*"}, []string{"192.0.2.10"}, nil)
	e.POST("/api/v1/contact", func(c echo.Context) error {
		return c.NoContent(http.StatusAccepted)
	}, RateLimit(cfg, rdb, nil))

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
		req.RemoteAddr = "192.0.2.10:443"
		req.Header.Set(echo.HeaderXForwardedFor, client)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusAccepted, send("198.51.100.1"))
	assert.Equal(t, http.StatusAccepted, send("198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
}
