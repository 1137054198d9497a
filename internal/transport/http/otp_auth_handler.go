package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

type sendRegistrationOTPRequest struct {
	FullName     string  `json:"fullName"`
	MobileNumber string  `json:"mobileNumber"`
	Email        string  `json:"email"`
	Location     *string `json:"location"`
	Company      *string `json:"company"`
}

type verifyRegistrationOTPRequest struct {
	sendRegistrationOTPRequest
	OTPCode  string `json:"otpCode"`
	Password string `json:"password"`
}

type sendLoginOTPRequest struct {
	Email string `json:"email"`
}

type verifyLoginOTPRequest struct {
	Email   string `json:"email"`
	OTPCode string `json:"otpCode"`
}

type otpSentResponse struct {
	Email     string `json:"email"`
	EmailSent bool   `json:"emailSent"`
}

type authUserResponse struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	MobileNumber *string   `json:"mobileNumber,omitempty"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func newAuthUserResponse(res *service.AuthResult) authUserResponse {
	return authUserResponse{
		ID:           res.User.ID,
		FullName:     res.User.FullName,
		Email:        res.User.Email,
		MobileNumber: res.User.MobileNumber,
		Token:        res.Token,
		ExpiresAt:    res.ExpiresAt,
	}
}

func (r sendRegistrationOTPRequest) profile() service.RegistrationProfile {
	return service.RegistrationProfile{
		FullName:     r.FullName,
		Email:        r.Email,
		MobileNumber: r.MobileNumber,
		Location:     r.Location,
		Company:      r.Company,
	}
}

type OTPAuthHandler struct {
	registration *service.RegistrationService
	login        *service.LoginService
	respond      Responder
}

// RegisterOTPAuth mounts the one-time code flows at the site root and again
// under /api/v1/auth.
func RegisterOTPAuth(e *echo.Echo, registration *service.RegistrationService, login *service.LoginService, respond Responder, mw ...echo.MiddlewareFunc) {
	h := &OTPAuthHandler{registration: registration, login: login, respond: respond}
	for _, prefix := range []string{"", "/api/v1/auth"} {
		e.POST(prefix+"/send-registration-otp", h.sendRegistrationOTP, mw...)
		e.POST(prefix+"/verify-registration-otp", h.verifyRegistrationOTP, mw...)
		e.POST(prefix+"/send-login-otp", h.sendLoginOTP, mw...)
		e.POST(prefix+"/verify-login-otp", h.verifyLoginOTP, mw...)
	}
}

func (h *OTPAuthHandler) sendRegistrationOTP(c echo.Context) error {
	var req sendRegistrationOTPRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	res, err := h.registration.SendCode(c.Request().Context(), req.profile())
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(otpSentMessage(res.EmailSent), otpSentResponse{Email: res.Email, EmailSent: res.EmailSent}))
}

func (h *OTPAuthHandler) verifyRegistrationOTP(c echo.Context) error {
	var req verifyRegistrationOTPRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	res, err := h.registration.Verify(c.Request().Context(), service.RegistrationInput{
		RegistrationProfile: req.profile(),
		Code:                req.OTPCode,
		Password:            req.Password,
	})
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusCreated, util.Success("registration complete", newAuthUserResponse(res)))
}

func (h *OTPAuthHandler) sendLoginOTP(c echo.Context) error {
	var req sendLoginOTPRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	res, err := h.login.SendCode(c.Request().Context(), req.Email)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(otpSentMessage(res.EmailSent), otpSentResponse{Email: res.Email, EmailSent: res.EmailSent}))
}

func (h *OTPAuthHandler) verifyLoginOTP(c echo.Context) error {
	var req verifyLoginOTPRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	res, err := h.login.Verify(c.Request().Context(), req.Email, req.OTPCode)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("login successful", newAuthUserResponse(res)))
}

// otpSentMessage covers the case where the code was stored but the mail relay failed.
func otpSentMessage(emailSent bool) string {
	if emailSent {
		return "verification code sent"
	}
	return "verification code created but the email could not be delivered"
}
