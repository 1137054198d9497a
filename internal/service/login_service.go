package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

type LoginService struct {
	users ports.WebUserRepository
	otp   *OTPService
	jwt   *util.JWTManager
}

func NewLoginService(users ports.WebUserRepository, otp *OTPService, jwt *util.JWTManager) *LoginService {
	return &LoginService{users: users, otp: otp, jwt: jwt}
}

// SendCode issues a login code only for existing, active accounts.
func (s *LoginService) SendCode(ctx context.Context, email string) (*SendCodeResult, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.activeUser(ctx, email)
	if err != nil {
		return nil, err
	}

	issued, err := s.otp.Issue(ctx, user.Email, user.MobileNumber, domain.OTPPurposeLogin)
	if err != nil {
		return nil, err
	}
	return &SendCodeResult{Email: user.Email, EmailSent: issued.EmailSent}, nil
}

func (s *LoginService) Verify(ctx context.Context, email, code string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, validationError("otpCode is required")
	}

	if _, err := s.otp.Consume(ctx, email, code, domain.OTPPurposeLogin); err != nil {
		return nil, err
	}

	user, err := s.activeUser(ctx, email)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email, util.SubjectWebUser, "")
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *LoginService) activeUser(ctx context.Context, email string) (*domain.WebUser, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find web user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}
