package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/authz"
	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Admin     *domain.Admin `json:"admin"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

type createAdminRequest struct {
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	MobileNumber *string `json:"mobileNumber"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// NewAdminGroup returns the /api/v1/admin group guarded by an admin token and
// the role policy. Extra middleware runs after authorization.
func NewAdminGroup(e *echo.Echo, auth *service.TokenAuthenticator, enforcer *authz.Enforcer, mw ...echo.MiddlewareFunc) *echo.Group {
	chain := append([]echo.MiddlewareFunc{RequireAdmin(auth), RequirePermission(enforcer)}, mw...)
	return e.Group("/api/v1/admin", chain...)
}

type AdminHandler struct {
	admins   *service.AdminService
	webUsers *service.WebUserService
	respond  Responder
}

func RegisterAdmin(e *echo.Echo, admin *echo.Group, admins *service.AdminService, webUsers *service.WebUserService, respond Responder, loginMW ...echo.MiddlewareFunc) {
	h := &AdminHandler{admins: admins, webUsers: webUsers, respond: respond}

	e.POST("/api/v1/admin/auth/login", h.login, loginMW...)

	admin.GET("/me", h.me)
	admin.GET("/admins", h.listAdmins)
	admin.POST("/admins", h.createAdmin)
	admin.PATCH("/admins/:id/status", h.setAdminStatus)
	admin.PATCH("/admins/:id/role", h.setAdminRole)
	admin.GET("/web-users", h.listWebUsers)
	admin.PATCH("/web-users/:id/status", h.setWebUserStatus)
}

func (h *AdminHandler) login(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	res, err := h.admins.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("login successful", adminLoginResponse{
		Admin:     res.Admin,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}))
}

func (h *AdminHandler) me(c echo.Context) error {
	admin, ok := currentAdmin(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, util.Success("profile", admin))
}

func (h *AdminHandler) listAdmins(c echo.Context) error {
	limit, offset := parsePagination(c, 20, 0)
	page, err := h.admins.List(c.Request().Context(), limit, offset)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("admins", page))
}

func (h *AdminHandler) createAdmin(c echo.Context) error {
	var req createAdminRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	admin, err := h.admins.Create(c.Request().Context(), service.AdminCreateInput{
		FullName:     req.FullName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		Role:         domain.AdminRole(req.Role),
	})
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusCreated, util.Success("admin created", admin))
}

func (h *AdminHandler) setAdminStatus(c echo.Context) error {
	actor, _ := currentAdmin(c)
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid admin id")
	}
	var req setActiveRequest
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return badRequest(c, "isActive is required")
	}
	admin, err := h.admins.SetActive(c.Request().Context(), actor.ID, id, *req.IsActive)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("admin updated", admin))
}

func (h *AdminHandler) setAdminRole(c echo.Context) error {
	actor, _ := currentAdmin(c)
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid admin id")
	}
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	admin, err := h.admins.SetRole(c.Request().Context(), actor.ID, id, domain.AdminRole(req.Role))
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("admin updated", admin))
}

func (h *AdminHandler) listWebUsers(c echo.Context) error {
	limit, offset := parsePagination(c, 20, 0)
	page, err := h.webUsers.List(c.Request().Context(), limit, offset)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("web users", page))
}

func (h *AdminHandler) setWebUserStatus(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid web user id")
	}
	var req setActiveRequest
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return badRequest(c, "isActive is required")
	}
	user, err := h.webUsers.SetActive(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("web user updated", user))
}
