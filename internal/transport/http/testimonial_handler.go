package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

type testimonialRequest struct {
	ClientName string  `json:"clientName"`
	ClientRole *string `json:"clientRole"`
	Quote      string  `json:"quote"`
	Rating     int     `json:"rating"`
	Published  bool    `json:"published"`
}

type TestimonialHandler struct {
	testimonials *service.TestimonialService
	respond      Responder
}

func RegisterTestimonials(e *echo.Echo, admin *echo.Group, testimonials *service.TestimonialService, respond Responder, guards Guards) {
	h := &TestimonialHandler{testimonials: testimonials, respond: respond}

	e.GET("/api/v1/testimonials", h.listPublished, guards.cache())

	admin.GET("/testimonials", h.listAll)
	admin.POST("/testimonials", h.create)
	admin.PUT("/testimonials/:id", h.update)
	admin.DELETE("/testimonials/:id", h.delete)
}

func (h *TestimonialHandler) listPublished(c echo.Context) error {
	return h.list(c, true)
}

func (h *TestimonialHandler) listAll(c echo.Context) error {
	return h.list(c, false)
}

func (h *TestimonialHandler) list(c echo.Context, publishedOnly bool) error {
	limit, offset := parsePagination(c, 20, 0)
	page, err := h.testimonials.List(c.Request().Context(), publishedOnly, limit, offset)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("testimonials", page))
}

func (h *TestimonialHandler) create(c echo.Context) error {
	var req testimonialRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	t, err := h.testimonials.Create(c.Request().Context(), domain.TestimonialInput(req))
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusCreated, util.Success("testimonial created", t))
}

func (h *TestimonialHandler) update(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid testimonial id")
	}
	var req testimonialRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	t, err := h.testimonials.Update(c.Request().Context(), id, domain.TestimonialInput(req))
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("testimonial updated", t))
}

func (h *TestimonialHandler) delete(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid testimonial id")
	}
	if err := h.testimonials.Delete(c.Request().Context(), id); err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("testimonial deleted", nil))
}
