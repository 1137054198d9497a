package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/events"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

type RegistrationProfile struct {
	FullName     string
	Email        string
	MobileNumber string
	Location     *string
	Company      *string
}

type RegistrationInput struct {
	RegistrationProfile
	Code     string
	Password string
}

type SendCodeResult struct {
	Email     string
	EmailSent bool
}

// AuthResult is returned by every flow that ends in a signed web user token.
type AuthResult struct {
	User      *domain.WebUser
	Token     string
	ExpiresAt time.Time
}

type RegistrationService struct {
	users    ports.WebUserRepository
	otp      *OTPService
	jwt      *util.JWTManager
	notifier events.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewRegistrationService(users ports.WebUserRepository, otp *OTPService, jwt *util.JWTManager, notifier events.Notifier, logger *zap.Logger) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{users: users, otp: otp, jwt: jwt, notifier: notifier, logger: logger, now: time.Now}
}

func (s *RegistrationService) SendCode(ctx context.Context, profile RegistrationProfile) (*SendCodeResult, error) {
	profile, err := normalizeProfile(profile)
	if err != nil {
		return nil, err
	}

	mobile := profile.MobileNumber
	exists, err := s.users.ExistsByEmailOrMobile(ctx, profile.Email, &mobile)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return nil, ErrAccountExists
	}

	issued, err := s.otp.Issue(ctx, profile.Email, &mobile, domain.OTPPurposeRegistration)
	if err != nil {
		return nil, err
	}
	return &SendCodeResult{Email: profile.Email, EmailSent: issued.EmailSent}, nil
}

func (s *RegistrationService) Verify(ctx context.Context, input RegistrationInput) (*AuthResult, error) {
	profile, err := normalizeProfile(input.RegistrationProfile)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Code) == "" {
		return nil, validationError("otpCode is required")
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	if _, err := s.otp.Consume(ctx, profile.Email, input.Code, domain.OTPPurposeRegistration); err != nil {
		return nil, err
	}

	hash, salt, err := util.DerivePassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	mobile := profile.MobileNumber
	user, err := s.users.Create(ctx, domain.NewWebUser{
		FullName:     profile.FullName,
		Email:        profile.Email,
		MobileNumber: &mobile,
		Location:     profile.Location,
		Company:      profile.Company,
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create web user: %w", err)
	}

	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email, util.SubjectWebUser, "")
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.announce(ctx, user)
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *RegistrationService) announce(ctx context.Context, user *domain.WebUser) {
	if s.notifier == nil {
		return
	}
	event := events.Event{
		Kind:       events.KindWebUserRegistered,
		OccurredAt: s.now().UTC(),
		Email:      user.Email,
		FullName:   user.FullName,
		Details:    map[string]string{},
	}
	if user.MobileNumber != nil {
		event.MobileNumber = *user.MobileNumber
	}
	if user.Location != nil {
		event.Details["location"] = *user.Location
	}
	if user.Company != nil {
		event.Details["company"] = *user.Company
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("registration notification failed", zap.String("email", user.Email), zap.Error(err))
	}
}

func normalizeProfile(p RegistrationProfile) (RegistrationProfile, error) {
	fullName, err := requireText("fullName", p.FullName, 120)
	if err != nil {
		return RegistrationProfile{}, err
	}
	email := normalizeEmail(p.Email)
	if err := validateEmail(email); err != nil {
		return RegistrationProfile{}, err
	}
	mobile := strings.TrimSpace(p.MobileNumber)
	if mobile == "" {
		return RegistrationProfile{}, validationError("mobileNumber is required")
	}
	if err := validateMobile(mobile); err != nil {
		return RegistrationProfile{}, err
	}
	return RegistrationProfile{
		FullName:     fullName,
		Email:        email,
		MobileNumber: mobile,
		Location:     normalizeString(p.Location),
		Company:      normalizeString(p.Company),
	}, nil
}
