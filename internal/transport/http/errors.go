package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

// Responder turns service errors into JSON envelopes. Internal error details
// are only exposed in development.
type Responder struct {
	dev    bool
	logger *zap.Logger
}

func NewResponder(dev bool, logger *zap.Logger) Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Responder{dev: dev, logger: logger}
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrAccountExists, http.StatusBadRequest},
	{service.ErrCodeInvalid, http.StatusBadRequest},
	{service.ErrImportEmptyFile, http.StatusBadRequest},
	{service.ErrImportTooLarge, http.StatusBadRequest},
	{service.ErrImportBadHeaders, http.StatusBadRequest},
	{service.ErrImportTooManyRows, http.StatusBadRequest},
	{service.ErrAccountNotFound, http.StatusNotFound},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrBlogNotFound, http.StatusNotFound},
	{service.ErrJobNotFound, http.StatusNotFound},
	{service.ErrPropertyNotFound, http.StatusNotFound},
	{service.ErrTestimonialNotFound, http.StatusNotFound},
	{service.ErrContactNotFound, http.StatusNotFound},
	{service.ErrAccountInactive, http.StatusUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrGoogleTokenInvalid, http.StatusUnauthorized},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrAdminSelfUpdate, http.StatusForbidden},
	{service.ErrSlugTaken, http.StatusConflict},
	{service.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

func statusFor(err error) int {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}

func (r Responder) fail(c echo.Context, err error) error {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		return c.JSON(status, util.Error(err.Error()))
	}

	r.logger.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.String("actor", actorID(c)),
		zap.Error(err),
	)
	if r.dev {
		return c.JSON(status, util.ErrorWithDetail("internal server error", err))
	}
	return c.JSON(status, util.Error("internal server error"))
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, util.Error(message))
}
