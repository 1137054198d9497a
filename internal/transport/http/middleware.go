package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/authz"
	"github.com/njprem/Estate_Site_BackEnd/internal/metrics"
	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

func RequireWebUser(auth *service.TokenAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error("missing or invalid authorization header"))
			}
			user, err := auth.WebUser(c.Request().Context(), token)
			if err != nil {
				return unauthorized(c, err)
			}
			c.Set(contextWebUserKey, user)
			return next(c)
		}
	}
}

func RequireAdmin(auth *service.TokenAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error("missing or invalid authorization header"))
			}
			admin, err := auth.Admin(c.Request().Context(), token)
			if err != nil {
				return unauthorized(c, err)
			}
			c.Set(contextAdminKey, admin)
			return next(c)
		}
	}
}

// RequirePermission checks the authenticated admin's role against the route
// pattern. It must run after RequireAdmin.
func RequirePermission(enforcer *authz.Enforcer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin, ok := currentAdmin(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
			}
			allowed, err := enforcer.Allow(admin.Role, c.Path(), c.Request().Method)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, util.Error("unable to verify permissions"))
			}
			if !allowed {
				return c.JSON(http.StatusForbidden, util.Error("insufficient privileges"))
			}
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, err error) error {
	if errors.Is(err, service.ErrAccountInactive) {
		return c.JSON(http.StatusUnauthorized, util.Error(service.ErrAccountInactive.Error()))
	}
	if errors.Is(err, service.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, util.Error("invalid or expired token"))
	}
	return c.JSON(http.StatusInternalServerError, util.Error("unable to authenticate request"))
}

func requestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveHTTPRequest(c.Request().Method, route, status, time.Since(start).Seconds())
			return err
		}
	}
}
