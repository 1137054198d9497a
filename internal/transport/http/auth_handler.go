package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

type googleSignInRequest struct {
	IDToken string `json:"idToken"`
}

type webUserProfileResponse struct {
	ID           string  `json:"id"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
	Location     *string `json:"location,omitempty"`
	Company      *string `json:"company,omitempty"`
}

type WebUserHandler struct {
	google  *service.GoogleSignInService
	respond Responder
}

func RegisterWebUser(e *echo.Echo, google *service.GoogleSignInService, auth *service.TokenAuthenticator, respond Responder) {
	h := &WebUserHandler{google: google, respond: respond}
	e.POST("/api/v1/auth/google", h.googleSignIn)
	e.GET("/api/v1/web-users/me", h.me, RequireWebUser(auth))
}

func (h *WebUserHandler) googleSignIn(c echo.Context) error {
	var req googleSignInRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	res, err := h.google.SignIn(c.Request().Context(), req.IDToken)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("login successful", newAuthUserResponse(res)))
}

func (h *WebUserHandler) me(c echo.Context) error {
	user, ok := currentWebUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, util.Success("profile", webUserProfileResponse{
		ID:           user.ID.String(),
		FullName:     user.FullName,
		Email:        user.Email,
		MobileNumber: user.MobileNumber,
		Location:     user.Location,
		Company:      user.Company,
	}))
}
