package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

const maxImportBytes = 5 * 1024 * 1024

type propertyRequest struct {
	Title         string          `json:"title"`
	Description   *string         `json:"description"`
	PropertyType  string          `json:"propertyType"`
	City          string          `json:"city"`
	Address       *string         `json:"address"`
	DeveloperName *string         `json:"developerName"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Bedrooms      *int            `json:"bedrooms"`
	Bathrooms     *int            `json:"bathrooms"`
	AreaSqft      *int            `json:"areaSqft"`
	Featured      bool            `json:"featured"`
	Published     bool            `json:"published"`
}

func (r propertyRequest) input() domain.PropertyInput {
	return domain.PropertyInput{
		Title:         r.Title,
		Description:   r.Description,
		PropertyType:  domain.PropertyType(strings.ToLower(strings.TrimSpace(r.PropertyType))),
		City:          r.City,
		Address:       r.Address,
		DeveloperName: r.DeveloperName,
		Price:         r.Price,
		Currency:      r.Currency,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		AreaSqft:      r.AreaSqft,
		Featured:      r.Featured,
		Published:     r.Published,
	}
}

type PropertyHandler struct {
	properties *service.PropertyService
	imports    *service.PropertyImportService
	respond    Responder
}

func RegisterProperties(e *echo.Echo, admin *echo.Group, properties *service.PropertyService, imports *service.PropertyImportService, respond Responder, guards Guards) {
	h := &PropertyHandler{properties: properties, imports: imports, respond: respond}

	e.GET("/api/v1/properties", h.listPublic, guards.cache())
	e.GET("/api/v1/properties/:idOrSlug", h.getPublic, guards.cache())

	admin.GET("/properties", h.listAll)
	admin.POST("/properties", h.create)
	admin.PUT("/properties/:id", h.update)
	admin.DELETE("/properties/:id", h.delete)
	admin.POST("/properties/:id/images", h.addImage)
	admin.POST("/properties/import", h.importCSV)
}

func parsePropertyFilter(c echo.Context) (domain.PropertyFilter, error) {
	limit, offset := parsePagination(c, 20, 0)
	filter := domain.PropertyFilter{
		City:         strings.TrimSpace(c.QueryParam("city")),
		PropertyType: domain.PropertyType(strings.ToLower(strings.TrimSpace(c.QueryParam("type")))),
		Limit:        limit,
		Offset:       offset,
	}
	for _, bound := range []struct {
		param string
		dst   **decimal.Decimal
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		raw := strings.TrimSpace(c.QueryParam(bound.param))
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil || v.IsNegative() {
			return filter, errors.New(bound.param + " must be a non-negative number")
		}
		*bound.dst = &v
	}
	return filter, nil
}

func (h *PropertyHandler) listPublic(c echo.Context) error {
	return h.list(c, true)
}

func (h *PropertyHandler) listAll(c echo.Context) error {
	return h.list(c, false)
}

func (h *PropertyHandler) list(c echo.Context, publicOnly bool) error {
	filter, err := parsePropertyFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	filter.PublicOnly = publicOnly
	page, err := h.properties.List(c.Request().Context(), filter)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("properties", page))
}

func (h *PropertyHandler) getPublic(c echo.Context) error {
	property, err := h.properties.Get(c.Request().Context(), c.Param("idOrSlug"), true)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("property", property))
}

func (h *PropertyHandler) create(c echo.Context) error {
	var req propertyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	property, err := h.properties.Create(c.Request().Context(), req.input())
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusCreated, util.Success("property created", property))
}

func (h *PropertyHandler) update(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid property id")
	}
	var req propertyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	property, err := h.properties.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("property updated", property))
}

func (h *PropertyHandler) delete(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid property id")
	}
	if err := h.properties.Delete(c.Request().Context(), id); err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("property deleted", nil))
}

func (h *PropertyHandler) addImage(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid property id")
	}
	upload, closeFn, err := formUpload(c, "image")
	if err != nil {
		return badRequest(c, "image file is required")
	}
	defer closeFn()

	property, err := h.properties.AddImage(c.Request().Context(), id, upload)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("image added", property))
}

// importCSV takes a multipart "file" part. dryRun=true validates every row
// without creating listings.
func (h *PropertyHandler) importCSV(c echo.Context) error {
	dryRun, _ := strconv.ParseBool(c.FormValue("dryRun"))
	upload, closeFn, err := formUpload(c, "file")
	if err != nil {
		return badRequest(c, "csv file is required")
	}
	defer closeFn()

	contents, err := io.ReadAll(io.LimitReader(upload.Reader, maxImportBytes+1))
	if err != nil {
		return badRequest(c, "unable to read csv file")
	}
	report, err := h.imports.Import(c.Request().Context(), upload.FileName, contents, dryRun)
	if err != nil {
		return h.respond.fail(c, err)
	}
	status := http.StatusCreated
	if dryRun {
		status = http.StatusOK
	}
	return c.JSON(status, util.Success("import processed", report))
}
