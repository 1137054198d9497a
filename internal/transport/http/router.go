package http

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

// NewRouter builds the echo instance. trustedProxies lists the CIDRs allowed
// to set X-Forwarded-For; with none, the socket address is the client IP.
func NewRouter(allowOrigins, trustedProxies []string, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = ipExtractor(trustedProxies, logger)

	allowCredentials := true
	for _, origin := range allowOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	e.Use(middleware.RequestID())
	registerLogging(e, logger)
	e.Use(requestMetrics())

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderOrigin,
			echo.HeaderXRequestedWith,
		},
		AllowCredentials: allowCredentials,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}

// RegisterReadiness mounts /ready, which reports 503 until every check passes.
func RegisterReadiness(e *echo.Echo, checks map[string]func(context.Context) error) {
	e.GET("/ready", func(c echo.Context) error {
		failed := map[string]string{}
		for name, check := range checks {
			if err := check(c.Request().Context()); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			body := util.Error("not ready")
			body["checks"] = failed
			return c.JSON(http.StatusServiceUnavailable, body)
		}
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})
}

func ipExtractor(trustedProxies []string, logger *zap.Logger) echo.IPExtractor {
	var ranges []echo.TrustOption
	for _, raw := range trustedProxies {
		if !strings.Contains(raw, "/") {
			if ip := net.ParseIP(raw); ip != nil && ip.To4() != nil {
				raw += "/32"
			} else {
				raw += "/128"
			}
		}
		_, network, err := net.ParseCIDR(raw)
		if err != nil {
			logger.Warn("ignoring trusted proxy", zap.String("value", raw), zap.Error(err))
			continue
		}
		ranges = append(ranges, echo.TrustIPRange(network))
	}
	if len(ranges) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := append([]echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}, ranges...)
	return echo.ExtractIPFromXFFHeader(opts...)
}

// Guards bundles optional middleware for public routes. Nil entries are no-ops.
type Guards struct {
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

func (g Guards) cache() echo.MiddlewareFunc {
	if g.Cache == nil {
		return passThrough
	}
	return g.Cache
}

func (g Guards) rateLimit() echo.MiddlewareFunc {
	if g.RateLimit == nil {
		return passThrough
	}
	return g.RateLimit
}
