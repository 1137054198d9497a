package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/metrics"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

// ErrCodeInvalid covers wrong, expired and already used codes alike.
var ErrCodeInvalid = errors.New("invalid or expired code")

const defaultOTPTTL = 10 * time.Minute

// CodeSender delivers a code to a single address, an email or a mobile number.
type CodeSender interface {
	SendOneTimeCode(ctx context.Context, to, code, purpose string, ttl time.Duration) error
}

type IssueResult struct {
	Code      *domain.OneTimeCode
	EmailSent bool
}

type OTPService struct {
	codes  ports.OneTimeCodeRepository
	email  CodeSender
	sms    CodeSender
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time
}

func NewOTPService(codes ports.OneTimeCodeRepository, email, sms CodeSender, ttl time.Duration, logger *zap.Logger) *OTPService {
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OTPService{codes: codes, email: email, sms: sms, logger: logger, ttl: ttl, now: time.Now}
}

// Issue persists a fresh code and then tries to deliver it. Delivery failures
// are reported through EmailSent and never remove the stored row.
func (s *OTPService) Issue(ctx context.Context, email string, mobileNumber *string, purpose domain.OTPPurpose) (*IssueResult, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("unknown otp purpose %q", purpose)
	}
	email = normalizeEmail(email)

	code, err := util.GenerateNumericOTP(util.OTPDigits)
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	expiresAt := s.now().UTC().Add(s.ttl)

	row, err := s.codes.Create(ctx, email, mobileNumber, code, purpose, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	result := &IssueResult{Code: row}
	if s.email != nil {
		if err := s.email.SendOneTimeCode(ctx, email, code, string(purpose), s.ttl); err != nil {
			s.logger.Warn("otp email dispatch failed",
				zap.String("email", email),
				zap.String("purpose", string(purpose)),
				zap.Error(err),
			)
		} else {
			result.EmailSent = true
		}
	}
	metrics.OTPIssued(string(purpose), result.EmailSent)

	if s.sms != nil && mobileNumber != nil && strings.TrimSpace(*mobileNumber) != "" {
		err := s.sms.SendOneTimeCode(ctx, strings.TrimSpace(*mobileNumber), code, string(purpose), s.ttl)
		metrics.Notification("sms", err)
		if err != nil {
			s.logger.Warn("otp sms dispatch failed", zap.String("purpose", string(purpose)), zap.Error(err))
		}
	}
	return result, nil
}

// Consume flips the newest matching code to used in one statement. Any miss
// yields ErrCodeInvalid; malformed codes never reach the store.
func (s *OTPService) Consume(ctx context.Context, email, code string, purpose domain.OTPPurpose) (*domain.OneTimeCode, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || !util.IsNumericOTP(code, util.OTPDigits) {
		metrics.OTPVerified(string(purpose), false)
		return nil, ErrCodeInvalid
	}

	now := s.now().UTC()
	row, err := s.codes.Consume(ctx, email, code, purpose, now)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("consume otp: %w", err)
		}
		metrics.OTPVerified(string(purpose), false)
		if err := s.codes.RecordFailedAttempt(ctx, email, purpose, now); err != nil {
			s.logger.Warn("record otp attempt failed", zap.String("email", email), zap.Error(err))
		}
		return nil, ErrCodeInvalid
	}
	metrics.OTPVerified(string(purpose), true)
	return row, nil
}
