package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

type blogRequest struct {
	Title     string   `json:"title"`
	Summary   *string  `json:"summary"`
	Content   string   `json:"content"`
	Author    *string  `json:"author"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

func (r blogRequest) input() domain.BlogInput {
	return domain.BlogInput{
		Title:     r.Title,
		Summary:   r.Summary,
		Content:   r.Content,
		Author:    r.Author,
		Tags:      r.Tags,
		Published: r.Published,
	}
}

type BlogHandler struct {
	blogs   *service.BlogService
	respond Responder
}

func RegisterBlogs(e *echo.Echo, admin *echo.Group, blogs *service.BlogService, respond Responder, guards Guards) {
	h := &BlogHandler{blogs: blogs, respond: respond}

	e.GET("/api/v1/blogs", h.listPublished, guards.cache())
	e.GET("/api/v1/blogs/:idOrSlug", h.getPublished, guards.cache())

	admin.GET("/blogs", h.listAll)
	admin.GET("/blogs/:id", h.getAny)
	admin.POST("/blogs", h.create)
	admin.PUT("/blogs/:id", h.update)
	admin.DELETE("/blogs/:id", h.delete)
	admin.POST("/blogs/:id/cover", h.uploadCover)
}

func (h *BlogHandler) listPublished(c echo.Context) error {
	return h.list(c, true)
}

func (h *BlogHandler) listAll(c echo.Context) error {
	return h.list(c, false)
}

func (h *BlogHandler) list(c echo.Context, publishedOnly bool) error {
	limit, offset := parsePagination(c, 20, 0)
	page, err := h.blogs.List(c.Request().Context(), publishedOnly, limit, offset)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("blogs", page))
}

func (h *BlogHandler) getPublished(c echo.Context) error {
	blog, err := h.blogs.Get(c.Request().Context(), c.Param("idOrSlug"), true)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("blog", blog))
}

func (h *BlogHandler) getAny(c echo.Context) error {
	blog, err := h.blogs.Get(c.Request().Context(), c.Param("id"), false)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("blog", blog))
}

func (h *BlogHandler) create(c echo.Context) error {
	var req blogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	admin, _ := currentAdmin(c)
	blog, err := h.blogs.Create(c.Request().Context(), admin.ID, req.input())
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusCreated, util.Success("blog created", blog))
}

func (h *BlogHandler) update(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid blog id")
	}
	var req blogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	blog, err := h.blogs.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("blog updated", blog))
}

func (h *BlogHandler) delete(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid blog id")
	}
	if err := h.blogs.Delete(c.Request().Context(), id); err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("blog deleted", nil))
}

func (h *BlogHandler) uploadCover(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid blog id")
	}
	upload, closeFn, err := formUpload(c, "image")
	if err != nil {
		return badRequest(c, "image file is required")
	}
	defer closeFn()

	blog, err := h.blogs.UploadCover(c.Request().Context(), id, upload)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("cover uploaded", blog))
}
