package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/events"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

var ErrGoogleTokenInvalid = errors.New("invalid google token")

type googleValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleSignInService signs web users in with a Google ID token, creating a
// password-less account on first use.
type GoogleSignInService struct {
	users    ports.WebUserRepository
	jwt      *util.JWTManager
	audience string
	validate googleValidator
	notifier events.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewGoogleSignInService(users ports.WebUserRepository, jwt *util.JWTManager, audience string, notifier events.Notifier, logger *zap.Logger) *GoogleSignInService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleSignInService{
		users:    users,
		jwt:      jwt,
		audience: audience,
		validate: idtoken.Validate,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *GoogleSignInService) SignIn(ctx context.Context, rawToken string) (*AuthResult, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, validationError("idToken is required")
	}
	if s.audience == "" {
		return nil, ErrGoogleTokenInvalid
	}

	payload, err := s.validate(ctx, rawToken, s.audience)
	if err != nil {
		return nil, ErrGoogleTokenInvalid
	}
	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	email = normalizeEmail(email)
	if email == "" || !verified {
		return nil, ErrGoogleTokenInvalid
	}
	name, _ := payload.Claims["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, ErrAccountInactive
		}
	case isNotFound(err):
		user, err = s.users.Create(ctx, domain.NewWebUser{FullName: name, Email: email})
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrAccountExists
			}
			return nil, fmt.Errorf("create web user: %w", err)
		}
		s.announce(ctx, user)
	default:
		return nil, fmt.Errorf("find web user: %w", err)
	}

	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email, util.SubjectWebUser, "")
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *GoogleSignInService) announce(ctx context.Context, user *domain.WebUser) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, events.Event{
		Kind:       events.KindWebUserRegistered,
		OccurredAt: s.now().UTC(),
		Email:      user.Email,
		FullName:   user.FullName,
		Details:    map[string]string{"source": "google"},
	})
	if err != nil {
		s.logger.Warn("registration notification failed", zap.String("email", user.Email), zap.Error(err))
	}
}
