package http

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/media"
)

const (
	contextWebUserKey = "web_user"
	contextAdminKey   = "admin"
)

func currentWebUser(c echo.Context) (*domain.WebUser, bool) {
	user, ok := c.Get(contextWebUserKey).(*domain.WebUser)
	return user, ok && user != nil
}

func currentAdmin(c echo.Context) (*domain.Admin, bool) {
	admin, ok := c.Get(contextAdminKey).(*domain.Admin)
	return admin, ok && admin != nil
}

// actorID identifies the caller for logs and rate limit keys.
func actorID(c echo.Context) string {
	if admin, ok := currentAdmin(c); ok {
		return "admin:" + admin.ID.String()
	}
	if user, ok := currentWebUser(c); ok {
		return "user:" + user.ID.String()
	}
	return "anonymous"
}

func bearerToken(c echo.Context) (string, bool) {
	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func parsePagination(c echo.Context, defaultLimit, defaultOffset int) (int, int) {
	limit := defaultLimit
	offset := defaultOffset
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := strings.TrimSpace(c.QueryParam("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	return id, err == nil
}

// formUpload opens a multipart file field. The returned closer must be called
// once the upload has been consumed.
func formUpload(c echo.Context, field string) (media.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return media.Upload{}, func() {}, err
	}
	file, err := fh.Open()
	if err != nil {
		return media.Upload{}, func() {}, err
	}
	upload := media.Upload{
		Reader:      file,
		Size:        fh.Size,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
	}
	return upload, func() { _ = file.Close() }, nil
}

func optionalForm(c echo.Context, field string) *string {
	v := strings.TrimSpace(c.FormValue(field))
	if v == "" {
		return nil
	}
	return &v
}
