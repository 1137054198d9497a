package http

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/config"
)

const cacheHeader = "X-Cache"

// captureWriter tees the response body while it is written to the client.
// Once the body grows past limit it stops buffering and marks itself overflowed.
type captureWriter struct {
	http.ResponseWriter
	status     int
	buf        bytes.Buffer
	limit      int
	overflowed bool
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if !w.overflowed {
		if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
			w.overflowed = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// cacheKey hashes the concrete request path, so /blogs/a and /blogs/b on the
// same route never share an entry.
func cacheKey(prefix string, c echo.Context) string {
	u := c.Request().URL
	sum := sha1.Sum([]byte(u.Path + "?" + u.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// ResponseCache serves repeated public GETs from Redis. Only 200 JSON bodies
// within the configured size are stored. A nil client disables caching.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client, logger *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set(cacheHeader, "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, body)
			} else if err != redis.Nil {
				logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set(cacheHeader, "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.overflowed || cw.buf.Len() == 0 {
				return nil
			}
			if err := rdb.Set(context.WithoutCancel(ctx), key, cw.buf.Bytes(), ttl).Err(); err != nil {
				logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}

// InvalidateCache drops every cached response after a successful write so
// admin edits show up on the public site without waiting for the TTL.
func InvalidateCache(cfg config.CacheConfig, rdb *redis.Client, logger *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if c.Request().Method == http.MethodGet || err != nil || c.Response().Status >= http.StatusBadRequest {
				return err
			}
			ctx := context.WithoutCancel(c.Request().Context())
			iter := rdb.Scan(ctx, 0, cfg.Prefix+":*", 200).Iterator()
			var keys []string
			for iter.Next(ctx) {
				keys = append(keys, iter.Val())
			}
			if scanErr := iter.Err(); scanErr != nil {
				logger.Warn("cache invalidation scan failed", zap.Error(scanErr))
				return nil
			}
			if len(keys) > 0 {
				if delErr := rdb.Del(ctx, keys...).Err(); delErr != nil {
					logger.Warn("cache invalidation failed", zap.Error(delErr))
				}
			}
			return nil
		}
	}
}
