package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

type contactRequest struct {
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	MobileNumber *string    `json:"mobileNumber"`
	Subject      *string    `json:"subject"`
	Message      string     `json:"message"`
	PropertyID   *uuid.UUID `json:"propertyId"`
}

type ContactHandler struct {
	contacts *service.ContactService
	respond  Responder
}

func RegisterContacts(e *echo.Echo, admin *echo.Group, contacts *service.ContactService, respond Responder, guards Guards) {
	h := &ContactHandler{contacts: contacts, respond: respond}

	e.POST("/api/v1/contact", h.submit, guards.rateLimit())

	admin.GET("/contacts", h.list)
	admin.PATCH("/contacts/:id/handled", h.markHandled)
}

func (h *ContactHandler) submit(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	submission, err := h.contacts.Submit(c.Request().Context(), service.ContactInput(req))
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusCreated, util.Success("thank you, we will be in touch", echo.Map{
		"id":        submission.ID,
		"createdAt": submission.CreatedAt,
	}))
}

func (h *ContactHandler) list(c echo.Context) error {
	var handled *bool
	if raw := strings.TrimSpace(c.QueryParam("handled")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "handled must be true or false")
		}
		handled = &v
	}
	limit, offset := parsePagination(c, 20, 0)
	page, err := h.contacts.List(c.Request().Context(), handled, limit, offset)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("contact submissions", page))
}

func (h *ContactHandler) markHandled(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid submission id")
	}
	admin, _ := currentAdmin(c)
	submission, err := h.contacts.MarkHandled(c.Request().Context(), id, admin.ID)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("submission marked as handled", submission))
}
